// Package client calls the /api/users endpoints. It runs the same lightweight
// form check as the web front end before sending anything; the server stays
// authoritative and re-validates every request.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"usermgmt/internal/apperror"
	"usermgmt/internal/models"
	"usermgmt/pkg/response"
	"usermgmt/pkg/validation"
)

const defaultTimeout = 10 * time.Second

// UserForm is what the user form submits. Only Email and Name are checked
// locally.
type UserForm struct {
	Email         string  `json:"email" validate:"required,email"`
	Name          string  `json:"name" validate:"required"`
	BirthDate     *string `json:"birthDate,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
	Role          string  `json:"role,omitempty"`
	NotifyByEmail *bool   `json:"notifyByEmail,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Theme         string  `json:"theme,omitempty"`
}

// APIError is a failed envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Fields  []apperror.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one server.
type Client struct {
	baseURL  string
	timeout  time.Duration
	validate *validator.Validate
}

type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  defaultTimeout,
		validate: validation.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) usersURL(id ...string) string {
	u := c.baseURL + "/api/users"
	if len(id) > 0 {
		u += "/" + url.PathEscape(id[0])
	}
	return u
}

// Check runs the client-side form schema.
func (c *Client) Check(form UserForm) error {
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)
	return validation.Struct(c.validate, form)
}

func (c *Client) Create(form UserForm) (*models.User, error) {
	if err := c.Check(form); err != nil {
		return nil, err
	}
	var user models.User
	if err := c.do(fiber.Post(c.usersURL()).JSON(form), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) List() ([]models.User, error) {
	var users []models.User
	if err := c.do(fiber.Get(c.usersURL()), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Get(id string) (*models.User, error) {
	var user models.User
	if err := c.do(fiber.Get(c.usersURL(id)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update sends the whole form, as the edit page does.
func (c *Client) Update(id string, form UserForm) (*models.User, error) {
	if err := c.Check(form); err != nil {
		return nil, err
	}
	var user models.User
	if err := c.do(fiber.Put(c.usersURL(id)).JSON(form), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Delete(id string) error {
	return c.do(fiber.Delete(c.usersURL(id)), nil)
}

func (c *Client) do(agent *fiber.Agent, out any) error {
	var env response.Envelope[json.RawMessage]
	code, _, errs := agent.Timeout(c.timeout).Struct(&env)
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errors.Join(errs...))
	}
	if !env.Success {
		apiErr := &APIError{Status: code, Message: env.Message}
		if code == fiber.StatusBadRequest && len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &apiErr.Fields)
		}
		return apiErr
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

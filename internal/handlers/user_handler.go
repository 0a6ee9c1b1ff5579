package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"usermgmt/internal/middleware"
	"usermgmt/internal/services"
	"usermgmt/pkg/response"
	"usermgmt/pkg/validation"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the user routes. Bodies are validated before the
// handler runs; errors are returned to the app's ErrorHandler.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Post("/", middleware.ValidateBody[services.CreateUserInput](h.validate), h.HandleCreate)
	users.Get("/", h.HandleList)
	users.Get("/:id", h.HandleGet)
	users.Put("/:id", middleware.ValidateBody[services.UpdateUserInput](h.validate), h.HandleUpdate)
	users.Delete("/:id", h.HandleDelete)
}

// HandleCreate creates a user from a validated body.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	input := middleware.Body[services.CreateUserInput](c)
	user, err := h.service.Create(c.UserContext(), *input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(response.Success(user, "User created successfully"))
}

// HandleList returns every user.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.service.FindAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(response.Success(users))
}

// HandleGet returns a single user.
func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	user, err := h.service.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(response.Success(user))
}

// HandleUpdate applies a partial update.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	input := middleware.Body[services.UpdateUserInput](c)
	user, err := h.service.Update(c.UserContext(), c.Params("id"), *input)
	if err != nil {
		return err
	}
	return c.JSON(response.Success(user, "User updated successfully"))
}

// HandleDelete removes a user.
func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(response.Success[any](nil, "User deleted successfully"))
}

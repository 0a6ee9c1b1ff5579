package middleware

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"usermgmt/internal/apperror"
	"usermgmt/pkg/validation"
)

const bodyKey = "validated_body"

// Normalizer is implemented by request bodies that trim or canonicalise
// their fields before validation.
type Normalizer interface {
	Normalize()
}

// ValidateBody parses the JSON body into a fresh T, normalises it and runs
// the validator. On failure it short-circuits with a validation error listing
// every failing field; on success the body is stored for Body to retrieve.
func ValidateBody[T any, PT interface {
	*T
	Normalizer
}](v *validator.Validate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := PT(new(T))
		if err := c.BodyParser(input); err != nil {
			if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusUnprocessableEntity {
				return apperror.NewValidation([]apperror.FieldError{{
					Field:   "payload",
					Message: "must be sent as application/json",
				}})
			}
			return validation.ToAppError(err)
		}
		input.Normalize()
		if err := validation.Struct(v, input); err != nil {
			return err
		}
		c.Locals(bodyKey, input)
		return c.Next()
	}
}

// Body returns the body stored by ValidateBody.
func Body[T any](c *fiber.Ctx) *T {
	input, _ := c.Locals(bodyKey).(*T)
	return input
}

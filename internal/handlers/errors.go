package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"usermgmt/internal/apperror"
	"usermgmt/pkg/response"
)

// ErrorHandler renders every error that reaches Fiber as an envelope.
// Full detail goes to the log; the client only sees the message.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr, status := classify(err)

		entry := log.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
			"kind":   appErr.Kind,
		})
		if status >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithError(err).Info("request rejected")
		}

		var data any
		if appErr.Kind == apperror.KindValidation {
			data = appErr.Fields
		}
		return c.Status(status).JSON(response.ErrorWithData(appErr.Message, data))
	}
}

func classify(err error) (*apperror.Error, int) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr, apperror.HTTPStatus(appErr.Kind)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		switch {
		case fe.Code == fiber.StatusNotFound:
			msg = "Resource not found"
		case fe.Code >= fiber.StatusInternalServerError:
			msg = "Internal Server Error"
		}
		return apperror.NewUnhandled(msg, err), fe.Code
	}

	return apperror.NewUnhandled("Internal Server Error", err), fiber.StatusInternalServerError
}

// NotFound is the catch-all for unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return fiber.ErrNotFound
}

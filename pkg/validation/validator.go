package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"usermgmt/internal/apperror"
)

// DateLayout is the calendar-date form accepted for birth dates.
const DateLayout = "2006-01-02"

// New returns a validator that reports JSON field names and knows the
// "birthdate" tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Empty means "clear the value" and is always acceptable.
	_ = v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	})
	return v
}

// ParseDate accepts either YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// Struct validates s and returns an *apperror.Error listing every failed field.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return ToAppError(err)
	}
	return nil
}

// ToAppError converts validator or JSON decoding errors into a validation error.
func ToAppError(err error) *apperror.Error {
	return apperror.NewValidation(ToFieldErrors(err))
}

// ToFieldErrors keeps validator's field order so messages are stable.
func ToFieldErrors(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return []apperror.FieldError{{Field: ute.Field, Message: "must be a " + ute.Type.String()}}
	}
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []apperror.FieldError{{Field: "payload", Message: "invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, apperror.FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return out
	}

	return []apperror.FieldError{{Field: "payload", Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "birthdate":
		return "must be a date in YYYY-MM-DD or RFC 3339 format"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "min":
		if param == "1" {
			return "must not be empty"
		}
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

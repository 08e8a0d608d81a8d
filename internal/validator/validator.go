package validator

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Seat labels are a short row prefix followed by a seat number, e.g. "A12".
var seatLabelRgx = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_label", validateSeatLabel)

	return validator
}

func validateSeatLabel(fl validator.FieldLevel) bool {
	return seatLabelRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", err.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", err.Param())
		}
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "seat_label":
		return "must be a seat label like \"A12\""
	default:
		return "is invalid"
	}
}

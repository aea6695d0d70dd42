package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"tourguard/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	RegisterCustomValidations(validate)
}

// ValidateStruct checks s against its validate tags and reports the first
// violated constraint as an ErrInvalidInput.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return e.Invalid(describe(verrs[0]))
	}
	return e.Invalid(err.Error())
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "lat":
		return fmt.Sprintf("%s must be between -90 and 90", field)
	case "lng":
		return fmt.Sprintf("%s must be between -180 and 180", field)
	case "base64":
		return fmt.Sprintf("%s must be valid base64", field)
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Romankivs/Lab1Istp/util/common"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their form name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateForm checks the validate tags of a form and returns the first
// failure as a common.ValidationError.
func validateForm(form any) error {
	return validationError("", validate.Struct(form))
}

// validateVar checks a single value against tag on behalf of field.
func validateVar(field string, value any, tag string) error {
	return validationError(field, validate.Var(value, tag))
}

func validationError(field string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return common.NewValidationError(field, "%v", err)
	}
	fe := fieldErrs[0]
	if name := fe.Field(); name != "" {
		field = name
	}
	return common.NewValidationError(field, "%s", reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "email":
		return fmt.Sprintf("%q is not an email address", fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return "must be a positive id"
	case "oneof":
		return fmt.Sprintf("%q is not one of %s", fe.Value(), fe.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %s", fe.Param())
	case "gtefield":
		return "must not be before the start date"
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}

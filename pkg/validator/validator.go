package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	featurePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// ValidationError lists every failed field with a readable message.
type ValidationError struct {
	Fields map[string]string
	msgs   []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.msgs, "; ")
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Use JSON tag names instead of struct field names for error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("feature_key", func(fl validator.FieldLevel) bool {
		return featurePattern.MatchString(fl.Field().String())
	})
	// decimal accepts a non-negative amount with at most two decimal places
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return !d.IsNegative() && d.Exponent() >= -2
	})

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return formatValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	out := &ValidationError{Fields: make(map[string]string, len(errs))}

	for _, err := range errs {
		var message string
		field := err.Field()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "uuid":
			message = fmt.Sprintf("%s must be a valid UUID", field)
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", field, err.Param())
		case "slug":
			message = fmt.Sprintf("%s must contain only lowercase letters, digits and hyphens", field)
		case "feature_key":
			message = fmt.Sprintf("%s must be a lowercase identifier", field)
		case "decimal":
			message = fmt.Sprintf("%s must be a non-negative amount with at most 2 decimals", field)
		default:
			message = fmt.Sprintf("%s failed validation for %s", field, err.Tag())
		}

		out.Fields[field] = message
		out.msgs = append(out.msgs, message)
	}

	return out
}

package validate

import (
	"errors"
	"fmt"

	"judgeback/internal/common"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct runs the tag-based validators on a request payload and folds any
// failures into common.ErrValidation so the boundary maps them to a 400 with
// field-level detail.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &FieldErrors{fields: fieldMap(verrs)}
	}
	return fmt.Errorf("validate.Struct: %w", err)
}

// FieldErrors carries per-field reasons alongside the ErrValidation sentinel.
type FieldErrors struct {
	fields map[string]string
}

func (e *FieldErrors) Error() string {
	return common.ErrValidation.Error()
}

func (e *FieldErrors) Unwrap() error {
	return common.ErrValidation
}

func (e *FieldErrors) Fields() map[string]string {
	return e.fields
}

func fieldMap(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "this field is required"
		case "eqfield":
			fields[fe.Field()] = "does not match " + fe.Param()
		case "oneof":
			fields[fe.Field()] = "must be one of: " + fe.Param()
		case "min":
			fields[fe.Field()] = "must be at least " + fe.Param() + " characters"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		case "gt", "gte":
			fields[fe.Field()] = "must be greater than " + fe.Param()
		case "lte":
			fields[fe.Field()] = "must be at most " + fe.Param()
		default:
			fields[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
	}
	return fields
}

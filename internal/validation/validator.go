// Package validation checks tree records with the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/gurbaninow/database/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their tree (JSON) names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error listing
// every failing field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError("validation failed", err)
	}
	return nil
}

// ValidateAt validates s and prefixes the error message with where, typically a
// file path and record position.
func (v *Validator) ValidateAt(where string, s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(where+": validation failed", err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(msg string, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	fields := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		if _, ok := fieldErrors[field]; !ok {
			fields = append(fields, field)
		}
		fieldErrors[field] = friendlyMessage(e)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + fieldErrors[f]
	}

	return domainerrors.ValidationWithDetails(msg+" ("+strings.Join(parts, "; ")+")", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", e.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gtefield":
		return "must be greater than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}

// Package validation wraps a shared go-playground validator with the custom
// tags used by configuration and input records.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report the YAML key when a field has one
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	// finite rejects NaN and infinities
	validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})

	// nodename rejects names that would not survive a round trip through an
	// edge-list file
	validate.RegisterValidation("nodename", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && !strings.HasPrefix(s, "#") && !strings.ContainsAny(s, " \t\r\n")
	})
}

// FieldError describes the first field that failed validation.
type FieldError struct {
	Field string
	Tag   string
	Param string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason())
}

// Reason renders the failed rule in words.
func (e *FieldError) Reason() string {
	switch e.Tag {
	case "required":
		return "field is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", e.Param)
	case "max", "lte":
		return fmt.Sprintf("must not exceed %s", e.Param)
	case "finite":
		return "must be a finite number"
	case "nodename":
		return "must be a non-empty name without whitespace or a leading '#'"
	default:
		return fmt.Sprintf("validation failed (%s)", e.Tag)
	}
}

// Struct validates v using its struct tags. It returns nil or the first
// failure as a *FieldError.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &FieldError{
		Field: fe.Field(),
		Tag:   fe.Tag(),
		Param: fe.Param(),
		Value: fe.Value(),
	}
}

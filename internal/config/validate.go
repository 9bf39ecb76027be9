package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the document key names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateConfig runs the per-field invariants over the merged
// configuration and records every failure.
func (l *loader) validateConfig(cfg *AppConfig) {
	err := validate.Struct(cfg)
	if err == nil {
		return
	}

	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		l.violation(MalformedDocument, "", nil, err.Error())
		return
	}

	for _, fe := range ferrs {
		l.violations = append(l.violations, Violation{
			Path:    fieldPath(fe.Namespace()),
			Kind:    violationKind(fe),
			Message: violationMessage(fe),
			Value:   fe.Value(),
		})
	}
}

// fieldPath converts a validator namespace such as
// "AppConfig.logging.handlers[console].level" into the document path
// "logging.handlers.console.level".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func violationKind(fe validator.FieldError) ViolationKind {
	// "min" is only applied to collections in this schema.
	if fe.Tag() == "min" {
		return EmptyRequiredCollection
	}
	return OutOfRange
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "required_if":
		return "must not be empty when caching is enabled"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "min":
		return "must not be empty"
	case "unique":
		return "must not contain duplicates"
	default:
		return "fails constraint " + fe.Tag()
	}
}

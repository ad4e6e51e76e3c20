package dto

import (
	"errors"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance shares the `binding` tags with gin so requests built
// outside HTTP are checked by the same rules.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
	})
	return validate
}

// Validate runs the struct's binding rules and reports failures as
// apperrors.ValidationErrors.
func Validate(req any) error {
	if err := validatorInstance().Struct(req); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts a validator or gin binding failure into the
// structured form returned to clients.
func ToValidationErrors(err error) apperrors.ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.ValidationErrors{{Index: -1, Message: err.Error()}}
	}
	out := make(apperrors.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperrors.ValidationError{
			Index:   -1,
			Field:   lowerFirst(fe.Field()),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " items"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

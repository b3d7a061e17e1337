package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	PriceMin = 300
	PriceMax = 9999999
)

var (
	halfWidthDigits = regexp.MustCompile(`^[0-9]+$`)
	fullWidthName   = regexp.MustCompile(`^[ぁ-んァ-ヶー一-龥々]+$`)
	fullWidthKana   = regexp.MustCompile(`^[ァ-ヶー]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
	alnumOnly       = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// ValidationError carries the full, human readable messages of a failed form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	must("lookup", func(fl validator.FieldLevel) bool {
		set, ok := LookupSets[fl.Param()]
		return ok && set.Valid(uint(fl.Field().Uint()))
	})
	must("halfwidth_digits", func(fl validator.FieldLevel) bool {
		return halfWidthDigits.MatchString(fl.Field().String())
	})
	must("price_range", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= PriceMin && n <= PriceMax
	})
	must("zenkaku", func(fl validator.FieldLevel) bool {
		return fullWidthName.MatchString(fl.Field().String())
	})
	must("katakana", func(fl validator.FieldLevel) bool {
		return fullWidthKana.MatchString(fl.Field().String())
	})
	must("alnum_mix", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return alnumOnly.MatchString(s) && hasLetter.MatchString(s) && hasDigit.MatchString(s)
	})
	return v
}

// validateStruct runs the struct tags of form and prepends extra messages.
func validateStruct(form interface{}, extra ...string) error {
	messages := append([]string{}, extra...)
	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			messages = append(messages, fullMessage(fe))
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

func fullMessage(fe validator.FieldError) string {
	var msg string
	switch fe.Tag() {
	case "required", "lookup":
		msg = "can't be blank"
	case "max":
		msg = fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	case "min":
		msg = fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "halfwidth_digits":
		msg = "is invalid. Input half-width characters"
	case "price_range":
		msg = "is out of setting range"
	case "email", "datetime":
		msg = "is invalid"
	case "zenkaku":
		msg = "is invalid. Input full-width characters"
	case "katakana":
		msg = "is invalid. Input full-width katakana characters"
	case "alnum_mix":
		msg = "is invalid. Include both letters and numbers"
	case "eqfield":
		msg = "doesn't match Password"
	default:
		msg = "is invalid"
	}
	return fe.Field() + " " + msg
}

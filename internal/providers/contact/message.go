package contact

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Message is a contact form submission
type Message struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=5"`
	Message string `json:"message" validate:"required,min=10"`
}

var (
	validate = newValidator()
	strict   = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Sanitize strips markup and surrounding whitespace from every field
func (m Message) Sanitize() Message {
	clean := func(s string) string {
		return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
	}
	return Message{
		Name:    clean(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: clean(m.Subject),
		Message: clean(m.Message),
	}
}

// Validate checks field constraints and reports the first violation
func (m Message) Validate() error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return newError(CodeValidation, "invalid message", err)
	}
	return newError(CodeValidation, describe(fields[0]), err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return "invalid email address"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

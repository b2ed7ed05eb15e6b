package handler

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator validates bound DTOs with their validate tags. It implements echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds a validator reporting fields by their JSON names.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate checks the struct against its validate tags.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

var _ echo.Validator = (*RequestValidator)(nil)

// bind decodes the body and validates it. A write to the response means the request was rejected.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, Error(c, http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return true, nil
	}
	if err := c.Validate(req); err != nil {
		return false, ValidationError(c, err)
	}
	return true, nil
}

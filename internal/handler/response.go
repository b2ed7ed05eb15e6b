package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

// ValidationError answers 400 with the failing field of each validation rule.
func ValidationError(c echo.Context, err error) error {
	payload := APIResponse{Status: "error", Message: "invalid payload"}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		payload.Errors = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			payload.Errors[fe.Field()] = fe.Tag()
		}
	}
	return c.JSON(http.StatusBadRequest, payload)
}

// ServiceError maps a domain error to its HTTP status. Unknown errors answer 500 with the fallback message.
func ServiceError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidURL):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, repository.ErrLeadNotFound),
		errors.Is(err, repository.ErrTenantNotFound),
		errors.Is(err, repository.ErrDistributionNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrCredentialsMissing):
		return Error(c, http.StatusPreconditionFailed, "WhatsApp gateway credentials are not configured for this account")
	case errors.Is(err, gateway.ErrGateway):
		return Error(c, http.StatusBadGateway, "WhatsApp gateway rejected the request")
	case errors.Is(err, context.DeadlineExceeded):
		return Error(c, http.StatusGatewayTimeout, "upstream timed out")
	default:
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

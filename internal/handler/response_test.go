package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service"
)

func TestSuccess(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Success(c, 0, "hello", map[string]string{"foo": "bar"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" || payload.Message != "hello" {
		t.Fatalf("unexpected response: %+v", payload)
	}
}

func TestError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Error(c, 0, "boom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected default status 500, got %d", rec.Code)
	}
}

func TestServiceError(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"missing field":       {err: fmt.Errorf("%w: phone", service.ErrMissingField), want: http.StatusBadRequest},
		"invalid status":      {err: service.ErrInvalidStatus, want: http.StatusBadRequest},
		"invalid credentials": {err: service.ErrInvalidCredentials, want: http.StatusUnauthorized},
		"lead not found":      {err: repository.ErrLeadNotFound, want: http.StatusNotFound},
		"no credentials":      {err: repository.ErrCredentialsMissing, want: http.StatusPreconditionFailed},
		"gateway":             {err: fmt.Errorf("%w: 500 boom", gateway.ErrGateway), want: http.StatusBadGateway},
		"timeout":             {err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		"unknown":             {err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := ServiceError(c, tc.err, "fallback"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

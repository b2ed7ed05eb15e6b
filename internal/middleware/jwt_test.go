package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/auth"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], s.err
}

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	manager := auth.NewJWTManager("secret", 0)

	token, err := manager.GenerateToken(7, "Octobees")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	tests := map[string]struct {
		header      string
		query       string
		revocations RevocationChecker
		expectCode  int
	}{
		"missing header": {
			expectCode: http.StatusUnauthorized,
		},
		"invalid header": {
			header:     "Basic token",
			expectCode: http.StatusUnauthorized,
		},
		"invalid token": {
			header:     "Bearer invalid",
			expectCode: http.StatusUnauthorized,
		},
		"revoked": {
			header:      "Bearer " + token,
			revocations: stubRevocations{revoked: map[string]bool{claims.ID: true}},
			expectCode:  http.StatusUnauthorized,
		},
		"revocation store down": {
			header:      "Bearer " + token,
			revocations: stubRevocations{err: errors.New("redis down")},
			expectCode:  http.StatusOK,
		},
		"query token": {
			query:      "?access_token=" + token,
			expectCode: http.StatusOK,
		},
		"success": {
			header:      "Bearer " + token,
			revocations: stubRevocations{},
			expectCode:  http.StatusOK,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			executed := false
			mw := JWT(manager, tt.revocations)
			err := mw(func(c echo.Context) error {
				executed = true
				tenantID, ok := TenantIDFromContext(c)
				if !ok || tenantID != 7 {
					t.Fatalf("expected tenant 7 in context, got %d", tenantID)
				}
				if ClaimsFromContext(c) == nil || c.Get(ContextKeyTenantName) != "Octobees" {
					t.Fatalf("expected claims in context")
				}
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.expectCode {
				t.Fatalf("expected %d, got %d", tt.expectCode, rec.Code)
			}
			if executed != (tt.expectCode == http.StatusOK) {
				t.Fatalf("unexpected handler execution: %v", executed)
			}
		})
	}
}

package dto

import (
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
)

// LoginRequest captures the tenant phone used to sign in.
type LoginRequest struct {
	Phone string `json:"phone" validate:"required,max=32"`
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Company     *entity.Company `json:"company,omitempty"`
}

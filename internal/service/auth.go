package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/auth"
	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

// TokenRevoker stores logged-out token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginResult is the session issued for a tenant.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Company   *entity.Company
}

// AuthService coordinates tenant lookup by phone and token issuance.
type AuthService struct {
	companies   repository.CompaniesRepository
	jwt         *auth.JWTManager
	revocations TokenRevoker
	region      string
	metrics     *metrics.Metrics
}

// NewAuthService constructs a new AuthService. revocations may be nil.
func NewAuthService(companies repository.CompaniesRepository, jwtManager *auth.JWTManager, revocations TokenRevoker, region string, m *metrics.Metrics) *AuthService {
	return &AuthService{companies: companies, jwt: jwtManager, revocations: revocations, region: region, metrics: m}
}

// Login finds the company registered with the phone and returns a session token.
func (s *AuthService) Login(ctx context.Context, phone string) (*LoginResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone", ErrMissingField)
	}

	company, err := s.findCompany(ctx, phone)
	if err != nil {
		s.metrics.RecordLoginAttempt(false)
		return nil, err
	}

	token, err := s.jwt.GenerateToken(company.ID, company.Name)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLoginAttempt(true)

	return &LoginResult{Token: token, ExpiresAt: time.Now().Add(s.jwt.TTL()), Company: company}, nil
}

func (s *AuthService) findCompany(ctx context.Context, phone string) (*entity.Company, error) {
	candidates := PhoneCandidates(phone, s.region)
	if len(candidates) == 0 {
		return nil, ErrInvalidCredentials
	}
	for _, candidate := range candidates {
		company, err := s.companies.FindByPhone(ctx, candidate)
		if err == nil {
			return company, nil
		}
		if !errors.Is(err, repository.ErrTenantNotFound) {
			return nil, err
		}
	}
	return nil, ErrInvalidCredentials
}

// Logout revokes the session until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.revocations == nil || claims == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.Remaining(time.Now()))
}

// IsRevoked reports whether the token id was logged out. Without a revocation store nothing is revoked.
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.revocations == nil {
		return false, nil
	}
	return s.revocations.IsRevoked(ctx, tokenID)
}

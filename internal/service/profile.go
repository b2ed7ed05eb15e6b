package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

// incompleteSettingsMessage is shown when the company has no WhatsApp token or gateway URL.
const incompleteSettingsMessage = "Configurações incompletas"

// ProfileInput carries the editable company fields. Nil fields are left untouched.
type ProfileInput struct {
	Name       *string
	Address    *string
	WPPToken   *string
	Phone      *string
	GatewayURL *string
}

// ProfileService reads and edits the tenant's company profile.
type ProfileService struct {
	companies repository.CompaniesRepository
	gateway   gateway.Gateway
	log       *slog.Logger
}

// NewProfileService wires the profile service.
func NewProfileService(companies repository.CompaniesRepository, gw gateway.Gateway, log *slog.Logger) *ProfileService {
	return &ProfileService{companies: companies, gateway: gw, log: log}
}

// Get returns the tenant's company.
func (s *ProfileService) Get(ctx context.Context, tenantID int64) (*entity.Company, error) {
	return s.companies.Get(ctx, tenantID)
}

// Update trims the given fields, normalises the gateway URL and stores them.
func (s *ProfileService) Update(ctx context.Context, tenantID int64, input ProfileInput) (*entity.Company, error) {
	update := repository.ProfileUpdate{
		Name:     trimmed(input.Name),
		Address:  trimmed(input.Address),
		WPPToken: trimmed(input.WPPToken),
		Phone:    trimmed(input.Phone),
	}
	if update.Name != nil && *update.Name == "" {
		return nil, fmt.Errorf("%w: nome", ErrMissingField)
	}
	if url := trimmed(input.GatewayURL); url != nil {
		if *url != "" {
			normalized, err := NormalizeGatewayURL(*url)
			if err != nil {
				return nil, err
			}
			url = &normalized
		}
		update.GatewayURL = url
	}
	return s.companies.Update(ctx, tenantID, update)
}

// InstanceStatus reports the connection state of the company's WhatsApp instance.
// Missing settings yield the disconnected state and gateway failures the error state.
func (s *ProfileService) InstanceStatus(ctx context.Context, tenantID int64) (gateway.InstanceStatus, error) {
	company, err := s.companies.Get(ctx, tenantID)
	if err != nil {
		return gateway.InstanceStatus{}, err
	}

	token := strings.TrimSpace(deref(company.WPPToken))
	baseURL := strings.TrimRight(strings.TrimSpace(deref(company.GatewayURL)), "/")
	if token == "" || baseURL == "" {
		return gateway.InstanceStatus{State: gateway.StateDisconnected, Error: incompleteSettingsMessage}, nil
	}

	status, err := s.gateway.InstanceStatus(ctx, entity.GatewayCredentials{Token: token, BaseURL: baseURL})
	if err != nil {
		s.log.WarnContext(ctx, "instance status failed", "tenant_id", tenantID, "error", err)
		return gateway.InstanceStatus{State: gateway.StateError, Error: err.Error()}, nil
	}
	return status, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

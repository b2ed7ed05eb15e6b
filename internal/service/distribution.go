package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

// DistributionInput is a contact to create or, when ID is set, update.
type DistributionInput struct {
	ID         int64
	Name       string
	Phone      string
	SheetURL   string
	DailyLimit int
}

// DistributionService manages the numbers that receive qualified leads.
type DistributionService struct {
	repo   repository.DistributionRepository
	region string
}

// NewDistributionService constructs a new DistributionService.
func NewDistributionService(repo repository.DistributionRepository, region string) *DistributionService {
	return &DistributionService{repo: repo, region: region}
}

// List returns the tenant's contacts.
func (s *DistributionService) List(ctx context.Context, tenantID int64) ([]entity.DistributionContact, error) {
	contacts, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []entity.DistributionContact{}
	}
	return contacts, nil
}

// Save validates the contact and stores its phone as digits. A limit of zero or less takes the default.
func (s *DistributionService) Save(ctx context.Context, tenantID int64, input DistributionInput) (*entity.DistributionContact, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome", ErrMissingField)
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, fmt.Errorf("%w: telefone", ErrMissingField)
	}
	phone, err := NormalizePhone(input.Phone, s.region)
	if err != nil {
		return nil, err
	}

	return s.repo.Save(ctx, &entity.DistributionContact{
		ID:         input.ID,
		TenantID:   tenantID,
		Name:       name,
		Phone:      phone,
		SheetURL:   strings.TrimSpace(input.SheetURL),
		DailyLimit: input.DailyLimit,
	})
}

// Delete removes one of the tenant's contacts.
func (s *DistributionService) Delete(ctx context.Context, tenantID, id int64) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// ResetDaily starts a new counting day for every contact.
func (s *DistributionService) ResetDaily(ctx context.Context) (int64, error) {
	return s.repo.ResetDaily(ctx)
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

type mockLeadsRepository struct {
	query         func(ctx context.Context, filter repository.LeadFilter) ([]entity.Lead, error)
	findByPhones  func(ctx context.Context, tenantID int64, phones []string) (map[string]entity.Lead, error)
	updateStatus  func(ctx context.Context, tenantID, leadID int64, status string) error
	setAutomation func(ctx context.Context, tenantID int64, phones []string, enabled bool) (int64, error)
}

func (m *mockLeadsRepository) Query(ctx context.Context, filter repository.LeadFilter) ([]entity.Lead, error) {
	if m.query != nil {
		return m.query(ctx, filter)
	}
	return nil, errors.New("Query not implemented")
}

func (m *mockLeadsRepository) FindByPhones(ctx context.Context, tenantID int64, phones []string) (map[string]entity.Lead, error) {
	if m.findByPhones != nil {
		return m.findByPhones(ctx, tenantID, phones)
	}
	return nil, errors.New("FindByPhones not implemented")
}

func (m *mockLeadsRepository) UpdateStatus(ctx context.Context, tenantID, leadID int64, status string) error {
	if m.updateStatus != nil {
		return m.updateStatus(ctx, tenantID, leadID, status)
	}
	return errors.New("UpdateStatus not implemented")
}

func (m *mockLeadsRepository) SetAutomation(ctx context.Context, tenantID int64, phones []string, enabled bool) (int64, error) {
	if m.setAutomation != nil {
		return m.setAutomation(ctx, tenantID, phones, enabled)
	}
	return 0, errors.New("SetAutomation not implemented")
}

type mockCompaniesRepository struct {
	findByPhone func(ctx context.Context, phone string) (*entity.Company, error)
	get         func(ctx context.Context, id int64) (*entity.Company, error)
	update      func(ctx context.Context, id int64, update repository.ProfileUpdate) (*entity.Company, error)
	credentials func(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error)
}

func (m *mockCompaniesRepository) FindByPhone(ctx context.Context, phone string) (*entity.Company, error) {
	if m.findByPhone != nil {
		return m.findByPhone(ctx, phone)
	}
	return nil, errors.New("FindByPhone not implemented")
}

func (m *mockCompaniesRepository) Get(ctx context.Context, id int64) (*entity.Company, error) {
	if m.get != nil {
		return m.get(ctx, id)
	}
	return nil, errors.New("Get not implemented")
}

func (m *mockCompaniesRepository) Update(ctx context.Context, id int64, update repository.ProfileUpdate) (*entity.Company, error) {
	if m.update != nil {
		return m.update(ctx, id, update)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockCompaniesRepository) GatewayCredentials(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error) {
	if m.credentials != nil {
		return m.credentials(ctx, tenantID)
	}
	return entity.GatewayCredentials{Token: "tok", BaseURL: "https://gw.example.com"}, nil
}

type mockDistributionRepository struct {
	list       func(ctx context.Context, tenantID int64) ([]entity.DistributionContact, error)
	save       func(ctx context.Context, contact *entity.DistributionContact) (*entity.DistributionContact, error)
	delete     func(ctx context.Context, tenantID, id int64) error
	resetDaily func(ctx context.Context) (int64, error)
}

func (m *mockDistributionRepository) List(ctx context.Context, tenantID int64) ([]entity.DistributionContact, error) {
	if m.list != nil {
		return m.list(ctx, tenantID)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockDistributionRepository) Save(ctx context.Context, contact *entity.DistributionContact) (*entity.DistributionContact, error) {
	if m.save != nil {
		return m.save(ctx, contact)
	}
	return nil, errors.New("Save not implemented")
}

func (m *mockDistributionRepository) Delete(ctx context.Context, tenantID, id int64) error {
	if m.delete != nil {
		return m.delete(ctx, tenantID, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockDistributionRepository) ResetDaily(ctx context.Context) (int64, error) {
	if m.resetDaily != nil {
		return m.resetDaily(ctx)
	}
	return 0, errors.New("ResetDaily not implemented")
}

type mockGateway struct {
	findChats    func(ctx context.Context, creds entity.GatewayCredentials, limit, offset int) (gateway.ChatPage, error)
	findMessages func(ctx context.Context, creds entity.GatewayCredentials, chatID string, limit int) ([]gateway.Message, error)
	sendText     func(ctx context.Context, creds entity.GatewayCredentials, number, text string) (gateway.Message, error)
	deleteMsg    func(ctx context.Context, creds entity.GatewayCredentials, messageID string) error
	status       func(ctx context.Context, creds entity.GatewayCredentials) (gateway.InstanceStatus, error)
}

func (m *mockGateway) FindChats(ctx context.Context, creds entity.GatewayCredentials, limit, offset int) (gateway.ChatPage, error) {
	if m.findChats != nil {
		return m.findChats(ctx, creds, limit, offset)
	}
	return gateway.ChatPage{}, errors.New("FindChats not implemented")
}

func (m *mockGateway) FindMessages(ctx context.Context, creds entity.GatewayCredentials, chatID string, limit int) ([]gateway.Message, error) {
	if m.findMessages != nil {
		return m.findMessages(ctx, creds, chatID, limit)
	}
	return nil, errors.New("FindMessages not implemented")
}

func (m *mockGateway) SendText(ctx context.Context, creds entity.GatewayCredentials, number, text string) (gateway.Message, error) {
	if m.sendText != nil {
		return m.sendText(ctx, creds, number, text)
	}
	return gateway.Message{}, errors.New("SendText not implemented")
}

func (m *mockGateway) DeleteMessage(ctx context.Context, creds entity.GatewayCredentials, messageID string) error {
	if m.deleteMsg != nil {
		return m.deleteMsg(ctx, creds, messageID)
	}
	return errors.New("DeleteMessage not implemented")
}

func (m *mockGateway) InstanceStatus(ctx context.Context, creds entity.GatewayCredentials) (gateway.InstanceStatus, error) {
	if m.status != nil {
		return m.status(ctx, creds)
	}
	return gateway.InstanceStatus{}, errors.New("InstanceStatus not implemented")
}

// memoryCache is a ReportCache keeping values as-is.
type memoryCache struct {
	mu          sync.Mutex
	items       map[string]any
	invalidated []int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]any)}
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *DashboardStats:
		*d = v.(DashboardStats)
	default:
		return false, nil
	}
	return true, nil
}

func (c *memoryCache) Put(_ context.Context, key string, report any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = report
	return nil
}

func (c *memoryCache) InvalidateTenant(_ context.Context, tenantID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, tenantID)
	for key := range c.items {
		if strings.HasPrefix(key, "reports:") {
			delete(c.items, key)
		}
	}
	return nil
}

type recordingRevoker struct {
	revoked map[string]time.Duration
}

func (r *recordingRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[tokenID] = ttl
	return nil
}

func (r *recordingRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func strPtr(v string) *string { return &v }

func leadWithStatus(id int64, status string, created time.Time) entity.Lead {
	return entity.Lead{ID: id, TenantID: 7, Status: status, CreatedAt: created}
}

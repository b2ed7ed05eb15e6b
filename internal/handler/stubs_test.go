package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/middleware"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
)

type stubLeadsRepo struct {
	query         func(ctx context.Context, filter repository.LeadFilter) ([]entity.Lead, error)
	updateStatus  func(ctx context.Context, tenantID, leadID int64, status string) error
	setAutomation func(ctx context.Context, tenantID int64, phones []string, enabled bool) (int64, error)
}

func (s *stubLeadsRepo) Query(ctx context.Context, filter repository.LeadFilter) ([]entity.Lead, error) {
	if s.query != nil {
		return s.query(ctx, filter)
	}
	return nil, nil
}

func (s *stubLeadsRepo) FindByPhones(context.Context, int64, []string) (map[string]entity.Lead, error) {
	return map[string]entity.Lead{}, nil
}

func (s *stubLeadsRepo) UpdateStatus(ctx context.Context, tenantID, leadID int64, status string) error {
	if s.updateStatus != nil {
		return s.updateStatus(ctx, tenantID, leadID, status)
	}
	return errors.New("not implemented")
}

func (s *stubLeadsRepo) SetAutomation(ctx context.Context, tenantID int64, phones []string, enabled bool) (int64, error) {
	if s.setAutomation != nil {
		return s.setAutomation(ctx, tenantID, phones, enabled)
	}
	return 0, errors.New("not implemented")
}

type stubCompaniesRepo struct {
	findByPhone func(ctx context.Context, phone string) (*entity.Company, error)
	get         func(ctx context.Context, id int64) (*entity.Company, error)
	update      func(ctx context.Context, id int64, update repository.ProfileUpdate) (*entity.Company, error)
	credentials func(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error)
}

func (s *stubCompaniesRepo) FindByPhone(ctx context.Context, phone string) (*entity.Company, error) {
	if s.findByPhone != nil {
		return s.findByPhone(ctx, phone)
	}
	return nil, repository.ErrTenantNotFound
}

func (s *stubCompaniesRepo) Get(ctx context.Context, id int64) (*entity.Company, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, repository.ErrTenantNotFound
}

func (s *stubCompaniesRepo) Update(ctx context.Context, id int64, update repository.ProfileUpdate) (*entity.Company, error) {
	if s.update != nil {
		return s.update(ctx, id, update)
	}
	return nil, errors.New("not implemented")
}

func (s *stubCompaniesRepo) GatewayCredentials(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error) {
	if s.credentials != nil {
		return s.credentials(ctx, tenantID)
	}
	return entity.GatewayCredentials{Token: "tok", BaseURL: "https://gw.example.com"}, nil
}

type stubDistributionRepo struct {
	save   func(ctx context.Context, contact *entity.DistributionContact) (*entity.DistributionContact, error)
	delete func(ctx context.Context, tenantID, id int64) error
}

func (s *stubDistributionRepo) List(context.Context, int64) ([]entity.DistributionContact, error) {
	return nil, nil
}

func (s *stubDistributionRepo) Save(ctx context.Context, contact *entity.DistributionContact) (*entity.DistributionContact, error) {
	if s.save != nil {
		return s.save(ctx, contact)
	}
	return contact, nil
}

func (s *stubDistributionRepo) Delete(ctx context.Context, tenantID, id int64) error {
	if s.delete != nil {
		return s.delete(ctx, tenantID, id)
	}
	return nil
}

func (s *stubDistributionRepo) ResetDaily(context.Context) (int64, error) { return 0, nil }

type stubGateway struct {
	sendText func(ctx context.Context, creds entity.GatewayCredentials, number, text string) (gateway.Message, error)
	status   func(ctx context.Context, creds entity.GatewayCredentials) (gateway.InstanceStatus, error)
}

func (s *stubGateway) FindChats(context.Context, entity.GatewayCredentials, int, int) (gateway.ChatPage, error) {
	return gateway.ChatPage{Chats: []gateway.Chat{{ChatID: "5511987654321@s.whatsapp.net", Name: "Ana"}}}, nil
}

func (s *stubGateway) FindMessages(context.Context, entity.GatewayCredentials, string, int) ([]gateway.Message, error) {
	return []gateway.Message{{MessageID: "m1", Timestamp: 1}}, nil
}

func (s *stubGateway) SendText(ctx context.Context, creds entity.GatewayCredentials, number, text string) (gateway.Message, error) {
	if s.sendText != nil {
		return s.sendText(ctx, creds, number, text)
	}
	return gateway.Message{MessageID: "srv-1", Text: text}, nil
}

func (s *stubGateway) DeleteMessage(context.Context, entity.GatewayCredentials, string) error {
	return nil
}

func (s *stubGateway) InstanceStatus(ctx context.Context, creds entity.GatewayCredentials) (gateway.InstanceStatus, error) {
	if s.status != nil {
		return s.status(ctx, creds)
	}
	return gateway.InstanceStatus{State: gateway.StateOpen}, nil
}

// newTenantContext builds a request context authenticated as tenant 7.
func newTenantContext(method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyTenantID, int64(7))
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) APIResponse {
	t.Helper()
	var envelope struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return envelope.APIResponse
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

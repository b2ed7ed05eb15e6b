package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
	"github.com/octobees/whatsapp-leads/api/internal/service/timeline"
)

// Chat paging defaults.
const (
	DefaultChatPageSize = 20
	MaxChatPageSize     = 100
	DefaultMessageLimit = 50
	MaxMessageLimit     = 500
)

// ChatView is a gateway chat enriched with the matching lead, when one exists.
type ChatView struct {
	gateway.Chat
	Title      string       `json:"title"`
	Preview    string       `json:"preview"`
	LeadID     *int64       `json:"lead_id,omitempty"`
	LeadStatus string       `json:"lead_status,omitempty"`
	Stage      funnel.Stage `json:"stage,omitempty"`
	AIEnabled  bool         `json:"ai_enabled"`
}

// ChatList is one page of enriched chats.
type ChatList struct {
	Chats      []ChatView          `json:"chats"`
	Pagination *gateway.Pagination `json:"pagination,omitempty"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// CredentialSource resolves the gateway credentials of a tenant.
type CredentialSource interface {
	GatewayCredentials(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error)
}

// ChatService reads conversations from the gateway and applies chat mutations optimistically.
type ChatService struct {
	gateway   gateway.Gateway
	creds     CredentialSource
	leads     repository.LeadsRepository
	timelines *timeline.Registry
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewChatService wires the chat service.
func NewChatService(gw gateway.Gateway, creds CredentialSource, leads repository.LeadsRepository, timelines *timeline.Registry, log *slog.Logger, m *metrics.Metrics) *ChatService {
	return &ChatService{gateway: gw, creds: creds, leads: leads, timelines: timelines, log: log, metrics: m, now: time.Now}
}

// ListChats returns a page of chats, most recent first, with lead status where a lead matches the phone.
// A failing lead lookup leaves the chats unenriched.
func (s *ChatService) ListChats(ctx context.Context, tenantID int64, page, limit int) (ChatList, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultChatPageSize
	}
	if limit > MaxChatPageSize {
		limit = MaxChatPageSize
	}

	creds, err := s.creds.GatewayCredentials(ctx, tenantID)
	if err != nil {
		return ChatList{}, err
	}
	result, err := s.gateway.FindChats(ctx, creds, limit, (page-1)*limit)
	if err != nil {
		return ChatList{}, err
	}

	views := make([]ChatView, len(result.Chats))
	phones := make([]string, 0, len(result.Chats))
	for i, chat := range result.Chats {
		views[i] = ChatView{Chat: chat, Title: chat.Title(), Preview: chat.Preview()}
		if digits := repository.Digits(chat.PhoneNumber()); digits != "" && !chat.IsGroup {
			phones = append(phones, digits)
		}
	}
	s.enrich(ctx, tenantID, views, phones)

	return ChatList{Chats: views, Pagination: result.Pagination, Page: page, Limit: limit}, nil
}

func (s *ChatService) enrich(ctx context.Context, tenantID int64, views []ChatView, phones []string) {
	if len(phones) == 0 {
		return
	}
	leads, err := s.leads.FindByPhones(ctx, tenantID, phones)
	if err != nil {
		s.metrics.RecordStoreFailure("chats_enrich")
		s.log.WarnContext(ctx, "chat enrichment failed", "tenant_id", tenantID, "error", err)
		return
	}
	for i := range views {
		lead, ok := leads[repository.Digits(views[i].PhoneNumber())]
		if !ok {
			continue
		}
		id := lead.ID
		views[i].LeadID = &id
		views[i].LeadStatus = lead.Status
		views[i].Stage = funnel.Classify(lead.Status)
		views[i].AIEnabled = lead.AIEnabled()
	}
}

// Messages fetches the latest messages of a chat and returns the merged timeline, oldest first.
func (s *ChatService) Messages(ctx context.Context, tenantID int64, chatID string, limit int) ([]timeline.Entry, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id", ErrMissingField)
	}
	limit = clampMessageLimit(limit)

	creds, err := s.creds.GatewayCredentials(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.gateway.FindMessages(ctx, creds, chatID, limit)
	if err != nil {
		return nil, err
	}
	t := s.timelines.Get(tenantID, chatID)
	t.Merge(msgs)
	return t.Entries(), nil
}

// Send posts a text message, showing it as pending until the gateway confirms it.
func (s *ChatService) Send(ctx context.Context, tenantID int64, chatID, text string) (timeline.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return timeline.Entry{}, ErrEmptyMessage
	}
	number := chatNumber(chatID)
	if number == "" {
		return timeline.Entry{}, fmt.Errorf("%w: chat id", ErrMissingField)
	}

	creds, err := s.creds.GatewayCredentials(ctx, tenantID)
	if err != nil {
		return timeline.Entry{}, err
	}

	cmd := timeline.NewSendCommand(chatID, text, s.now(), func(ctx context.Context) (gateway.Message, error) {
		return s.gateway.SendText(ctx, creds, number, text)
	})
	if err := timeline.Execute(ctx, s.timelines.Get(tenantID, chatID), cmd); err != nil {
		s.log.WarnContext(ctx, "send message failed", "tenant_id", tenantID, "chat_id", chatID, "error", err)
		return timeline.Entry{}, err
	}
	return cmd.Confirmed(), nil
}

// Delete removes a message, hiding it immediately and restoring it if the gateway refuses.
func (s *ChatService) Delete(ctx context.Context, tenantID int64, chatID, messageID string) error {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return fmt.Errorf("%w: message id", ErrMissingField)
	}

	creds, err := s.creds.GatewayCredentials(ctx, tenantID)
	if err != nil {
		return err
	}

	cmd := timeline.NewDeleteCommand(messageID, func(ctx context.Context) error {
		return s.gateway.DeleteMessage(ctx, creds, messageID)
	})
	if err := timeline.Execute(ctx, s.timelines.Get(tenantID, chatID), cmd); err != nil {
		s.log.WarnContext(ctx, "delete message failed", "tenant_id", tenantID, "chat_id", chatID, "error", err)
		return err
	}
	return nil
}

// chatNumber returns the recipient of a chat: the JID user part for individual chats, the full JID for groups.
func chatNumber(chatID string) string {
	chatID = strings.TrimSpace(chatID)
	user, server, found := strings.Cut(chatID, "@")
	if found && server == "g.us" {
		return chatID
	}
	return user
}

func clampMessageLimit(limit int) int {
	if limit <= 0 {
		return DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		return MaxMessageLimit
	}
	return limit
}

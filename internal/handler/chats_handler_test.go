package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/gateway"
	"github.com/octobees/whatsapp-leads/api/internal/logger"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service"
	"github.com/octobees/whatsapp-leads/api/internal/service/timeline"
)

func newChatsHandler(gw gateway.Gateway, companies *stubCompaniesRepo) *ChatsHandler {
	svc := service.NewChatService(gw, companies, &stubLeadsRepo{}, timeline.NewRegistry(10, 100), logger.Discard(), nil)
	return NewChatsHandler(svc, nil)
}

func TestChatsHandler_List(t *testing.T) {
	handler := newChatsHandler(&stubGateway{}, &stubCompaniesRepo{})

	c, rec := newTenantContext(http.MethodGet, "/chats?page=1&limit=20", nil)
	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var list service.ChatList
	decodeResponse(t, rec, &list)
	if len(list.Chats) != 1 || list.Chats[0].Title != "Ana" {
		t.Fatalf("unexpected chats: %+v", list)
	}
}

func TestChatsHandler_MissingCredentials(t *testing.T) {
	handler := newChatsHandler(&stubGateway{}, &stubCompaniesRepo{credentials: func(context.Context, int64) (entity.GatewayCredentials, error) {
		return entity.GatewayCredentials{}, repository.ErrCredentialsMissing
	}})

	c, rec := newTenantContext(http.MethodGet, "/chats", nil)
	_ = handler.List(c)
	expectStatus(t, rec, http.StatusPreconditionFailed)
}

func TestChatsHandler_Messages(t *testing.T) {
	handler := newChatsHandler(&stubGateway{}, &stubCompaniesRepo{})

	c, rec := newTenantContext(http.MethodGet, "/chats/x/messages", nil)
	c.SetParamNames("chatid")
	c.SetParamValues("5511987654321@s.whatsapp.net")
	_ = handler.Messages(c)
	expectStatus(t, rec, http.StatusOK)

	var entries []timeline.Entry
	decodeResponse(t, rec, &entries)
	if len(entries) != 1 || entries[0].Key() != "m1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestChatsHandler_Send(t *testing.T) {
	tests := map[string]struct {
		body       any
		sendErr    error
		expectCode int
	}{
		"empty text":      {body: map[string]string{"text": ""}, expectCode: http.StatusBadRequest},
		"blank text":      {body: map[string]string{"text": "   "}, expectCode: http.StatusBadRequest},
		"gateway refused": {body: map[string]string{"text": "oi"}, sendErr: gateway.ErrGateway, expectCode: http.StatusBadGateway},
		"sent":            {body: map[string]string{"text": "oi"}, expectCode: http.StatusCreated},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			handler := newChatsHandler(&stubGateway{sendText: func(_ context.Context, _ entity.GatewayCredentials, number, text string) (gateway.Message, error) {
				if tc.sendErr != nil {
					return gateway.Message{}, tc.sendErr
				}
				return gateway.Message{MessageID: "srv-1", Text: text}, nil
			}}, &stubCompaniesRepo{})

			c, rec := newTenantContext(http.MethodPost, "/chats/x/messages", tc.body)
			c.SetParamNames("chatid")
			c.SetParamValues("5511987654321@s.whatsapp.net")
			_ = handler.Send(c)
			expectStatus(t, rec, tc.expectCode)
		})
	}
}

func TestChatsHandler_DeleteAndStreamDisabled(t *testing.T) {
	handler := newChatsHandler(&stubGateway{}, &stubCompaniesRepo{})

	c, rec := newTenantContext(http.MethodDelete, "/chats/x/messages/m1", nil)
	c.SetParamNames("chatid", "id")
	c.SetParamValues("5511987654321@s.whatsapp.net", "m1")
	_ = handler.Delete(c)
	expectStatus(t, rec, http.StatusNoContent)

	c, rec = newTenantContext(http.MethodGet, "/chats/x/stream", nil)
	c.SetParamNames("chatid")
	c.SetParamValues("5511987654321@s.whatsapp.net")
	_ = handler.Stream(c)
	expectStatus(t, rec, http.StatusNotImplemented)
}

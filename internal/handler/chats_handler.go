package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/whatsapp-leads/api/internal/dto"
	"github.com/octobees/whatsapp-leads/api/internal/realtime"
	"github.com/octobees/whatsapp-leads/api/internal/service"
	"github.com/octobees/whatsapp-leads/api/internal/service/timeline"
)

// ChatsHandler exposes the WhatsApp conversation endpoints.
type ChatsHandler struct {
	chats *service.ChatService
	hub   *realtime.Hub
}

// NewChatsHandler constructs a ChatsHandler. hub may be nil to disable streaming.
func NewChatsHandler(chats *service.ChatService, hub *realtime.Hub) *ChatsHandler {
	return &ChatsHandler{chats: chats, hub: hub}
}

// List handles GET /chats?page&limit.
func (h *ChatsHandler) List(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	list, err := h.chats.ListChats(c.Request().Context(), tenant, queryInt(c, "page", 1), queryInt(c, "limit", service.DefaultChatPageSize))
	if err != nil {
		return ServiceError(c, err, "unable to load chats")
	}
	return Success(c, http.StatusOK, "", list)
}

// Messages handles GET /chats/:chatid/messages?limit.
func (h *ChatsHandler) Messages(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	entries, err := h.chats.Messages(c.Request().Context(), tenant, c.Param("chatid"), queryInt(c, "limit", service.DefaultMessageLimit))
	if err != nil {
		return ServiceError(c, err, "unable to load messages")
	}
	if entries == nil {
		entries = []timeline.Entry{}
	}
	return Success(c, http.StatusOK, "", entries)
}

// Send handles POST /chats/:chatid/messages.
func (h *ChatsHandler) Send(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	var req dto.SendMessageRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	chatID := c.Param("chatid")
	entry, err := h.chats.Send(c.Request().Context(), tenant, chatID, req.Text)
	if err != nil {
		return ServiceError(c, err, "unable to send message")
	}
	if h.hub != nil {
		h.hub.Broadcast(tenant, chatID, realtime.Event{Type: realtime.EventMessages, ChatID: chatID, Messages: []timeline.Entry{entry}})
	}
	return Success(c, http.StatusCreated, "message sent", entry)
}

// Delete handles DELETE /chats/:chatid/messages/:id.
func (h *ChatsHandler) Delete(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}

	if err := h.chats.Delete(c.Request().Context(), tenant, c.Param("chatid"), c.Param("id")); err != nil {
		return ServiceError(c, err, "unable to delete message")
	}
	return c.NoContent(http.StatusNoContent)
}

// Stream handles GET /chats/:chatid/stream, upgrading to a websocket that pushes new messages.
func (h *ChatsHandler) Stream(c echo.Context) error {
	tenant, ok := tenantID(c)
	if !ok {
		return missingTenant(c)
	}
	if h.hub == nil {
		return Error(c, http.StatusNotImplemented, "streaming disabled")
	}
	chatID := strings.TrimSpace(c.Param("chatid"))
	if chatID == "" {
		return Error(c, http.StatusBadRequest, "chat id is required")
	}

	if err := h.hub.Serve(c.Response(), c.Request(), tenant, chatID); err != nil {
		c.Logger().Warnf("stream upgrade: %v", err)
	}
	return nil
}

package gateway

import (
	"encoding/json"
	"strings"
)

// Chat is a conversation as listed by the gateway.
type Chat struct {
	ID              string `json:"id"`
	ChatID          string `json:"wa_chatid"`
	Name            string `json:"wa_name,omitempty"`
	ContactName     string `json:"wa_contactName,omitempty"`
	DisplayName     string `json:"name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	LastMessageAt   int64  `json:"wa_lastMsgTimestamp"`
	UnreadCount     int    `json:"wa_unreadCount"`
	IsGroup         bool   `json:"wa_isGroup"`
	LastMessageType string `json:"wa_lastMessageType,omitempty"`
	LastMessageVote string `json:"wa_lastMessageTextVote,omitempty"`
	LastMessageText string `json:"wa_lastMessageText,omitempty"`
	Image           string `json:"image,omitempty"`
}

// Title picks the best available label for the chat.
func (c Chat) Title() string {
	for _, candidate := range []string{c.ContactName, c.Name, c.DisplayName, c.Phone, c.ChatID} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// PhoneNumber returns the chat's phone, falling back to the user part of the WhatsApp JID.
func (c Chat) PhoneNumber() string {
	if c.Phone != "" {
		return c.Phone
	}
	user, _, _ := strings.Cut(c.ChatID, "@")
	return user
}

// Preview returns the last message text, preferring the vote text the gateway usually fills.
func (c Chat) Preview() string {
	if c.LastMessageVote != "" {
		return c.LastMessageVote
	}
	return c.LastMessageText
}

// Message is a single WhatsApp message.
type Message struct {
	ID         string `json:"id"`
	MessageID  string `json:"messageid"`
	ChatID     string `json:"chatid"`
	Text       string `json:"text"`
	Type       string `json:"messageType"`
	Timestamp  int64  `json:"messageTimestamp"`
	FromMe     bool   `json:"fromMe"`
	SenderName string `json:"senderName,omitempty"`
	FileURL    string `json:"fileURL,omitempty"`
}

// Key is the stable identity of the message: messageid, falling back to id.
func (m Message) Key() string {
	if m.MessageID != "" {
		return m.MessageID
	}
	return m.ID
}

// Pagination mirrors the gateway's paging block.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	HasNextPage  bool `json:"hasNextPage"`
	PageSize     int  `json:"pageSize"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
}

// ChatPage is one page of the chat list.
type ChatPage struct {
	Chats      []Chat      `json:"chats"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Instance connection states.
const (
	StateOpen         = "open"
	StateClose        = "close"
	StateUnknown      = "unknown"
	StateDisconnected = "disconnected"
	StateError        = "error"
)

// InstanceStatus is the connection state of the tenant's WhatsApp instance.
type InstanceStatus struct {
	State string          `json:"state"`
	Error string          `json:"error,omitempty"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}

// ParseInstanceState reads the state from any of the known response shapes:
// {"instance":{"state":..}}, {"status":{"connected":bool}} or {"state":..}.
func ParseInstanceState(raw []byte) string {
	var payload struct {
		Instance *struct {
			State string `json:"state"`
		} `json:"instance"`
		Status *struct {
			Connected *bool `json:"connected"`
		} `json:"status"`
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return StateUnknown
	}
	switch {
	case payload.Instance != nil && payload.Instance.State != "":
		return payload.Instance.State
	case payload.Status != nil && payload.Status.Connected != nil && *payload.Status.Connected:
		return StateOpen
	case payload.Status != nil && payload.Status.Connected != nil:
		return StateClose
	case payload.State != "":
		return payload.State
	}
	return StateUnknown
}

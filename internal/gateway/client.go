package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
)

// ErrGateway wraps every non-2xx answer of the gateway.
var ErrGateway = errors.New("gateway error")

// Gateway is the WhatsApp gateway surface the services depend on.
type Gateway interface {
	FindChats(ctx context.Context, creds entity.GatewayCredentials, limit, offset int) (ChatPage, error)
	FindMessages(ctx context.Context, creds entity.GatewayCredentials, chatID string, limit int) ([]Message, error)
	SendText(ctx context.Context, creds entity.GatewayCredentials, number, text string) (Message, error)
	DeleteMessage(ctx context.Context, creds entity.GatewayCredentials, messageID string) error
	InstanceStatus(ctx context.Context, creds entity.GatewayCredentials) (InstanceStatus, error)
}

const defaultTimeout = 15 * time.Second

// Client talks to the Uazapi HTTP API with the tenant's token header.
type Client struct {
	client  *http.Client
	metrics *metrics.Metrics
}

// NewClient builds a gateway client. A nil http client gets a default one, and a client without
// a timeout is copied with the given one. A timeout of zero or less means 15s.
func NewClient(client *http.Client, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{}
	}
	if client.Timeout == 0 {
		copied := *client
		copied.Timeout = timeout
		client = &copied
	}
	return &Client{client: client, metrics: m}
}

var _ Gateway = (*Client)(nil)

// FindChats lists chats, most recent activity first.
func (c *Client) FindChats(ctx context.Context, creds entity.GatewayCredentials, limit, offset int) (ChatPage, error) {
	payload := map[string]any{
		"limit":  limit,
		"offset": offset,
		"sort":   "-wa_lastMsgTimestamp",
	}
	var resp struct {
		Chats      []Chat      `json:"chats"`
		Response   []Chat      `json:"response"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := c.do(ctx, creds, http.MethodPost, "/chat/find", payload, &resp); err != nil {
		return ChatPage{}, err
	}
	chats := resp.Chats
	if chats == nil {
		chats = resp.Response
	}
	if chats == nil {
		chats = []Chat{}
	}
	return ChatPage{Chats: chats, Pagination: resp.Pagination}, nil
}

// FindMessages returns up to limit messages of a chat, newest first as the gateway sorts them.
func (c *Client) FindMessages(ctx context.Context, creds entity.GatewayCredentials, chatID string, limit int) ([]Message, error) {
	payload := map[string]any{
		"chatid": chatID,
		"limit":  limit,
		"sort":   "-wa_timestamp",
	}
	var resp struct {
		Messages []Message `json:"messages"`
		Response []Message `json:"response"`
	}
	if err := c.do(ctx, creds, http.MethodPost, "/message/find", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Messages != nil {
		return resp.Messages, nil
	}
	if resp.Response != nil {
		return resp.Response, nil
	}
	return []Message{}, nil
}

// SendText sends a text message and returns the message the gateway confirmed.
func (c *Client) SendText(ctx context.Context, creds entity.GatewayCredentials, number, text string) (Message, error) {
	var msg Message
	err := c.do(ctx, creds, http.MethodPost, "/send/text", map[string]string{"number": number, "text": text}, &msg)
	return msg, err
}

// DeleteMessage deletes a message for everyone.
func (c *Client) DeleteMessage(ctx context.Context, creds entity.GatewayCredentials, messageID string) error {
	return c.do(ctx, creds, http.MethodPost, "/message/delete", map[string]string{"id": messageID}, nil)
}

// InstanceStatus reads the instance connection state.
func (c *Client) InstanceStatus(ctx context.Context, creds entity.GatewayCredentials) (InstanceStatus, error) {
	var raw json.RawMessage
	if err := c.do(ctx, creds, http.MethodGet, "/instance/status", nil, &raw); err != nil {
		return InstanceStatus{State: StateError, Error: err.Error()}, err
	}
	return InstanceStatus{State: ParseInstanceState(raw), Raw: raw}, nil
}

func (c *Client) do(ctx context.Context, creds entity.GatewayCredentials, method, path string, payload, out any) (err error) {
	defer func() { c.metrics.RecordGatewayCall(strings.TrimPrefix(path, "/"), err) }()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := strings.TrimRight(creds.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("token", creds.Token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %d %s", ErrGateway, resp.StatusCode, extractError(resp.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("could not decode gateway response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "gateway returned an error"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

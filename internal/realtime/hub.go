package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/octobees/whatsapp-leads/api/internal/service/timeline"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer  = 16
	pollLimit   = 50
	pollTimeout = 30 * time.Second
	maxSeen     = 2 * timeline.DefaultLimit
)

// Event types pushed to subscribers.
const (
	EventMessages = "messages"
	EventError    = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Fetcher polls a chat and returns its latest messages, oldest first.
type Fetcher interface {
	Messages(ctx context.Context, tenantID int64, chatID string, limit int) ([]timeline.Entry, error)
}

// Event is one push to the subscribers of a chat.
type Event struct {
	Type     string           `json:"type"`
	ChatID   string           `json:"chat_id"`
	Messages []timeline.Entry `json:"messages,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Hub fans polled chat messages out to websocket subscribers. One poller runs per chat while it has subscribers,
// and each chat room tracks which messages it already pushed.
type Hub struct {
	fetcher  Fetcher
	interval time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	rooms map[string]*room
}

type room struct {
	tenantID int64
	chatID   string
	clients  map[*client]struct{}
	cancel   context.CancelFunc
	seen     seenSet
}

// seenSet remembers the most recent message keys pushed to a room.
type seenSet struct {
	keys  map[string]struct{}
	order []string
}

func (s *seenSet) has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *seenSet) add(key string) {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	if key == "" || s.has(key) {
		return
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	if len(s.order) > maxSeen {
		delete(s.keys, s.order[0])
		s.order = s.order[1:]
	}
}

type client struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHub builds a hub polling every interval.
func NewHub(fetcher Fetcher, interval time.Duration, log *slog.Logger) *Hub {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Hub{fetcher: fetcher, interval: interval, log: log, rooms: make(map[string]*room)}
}

// Serve upgrades the request and streams the chat until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, tenantID int64, chatID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan Event, sendBuffer)}

	h.register(tenantID, chatID, c)
	go h.writePump(c)
	h.readPump(c)
	h.unregister(tenantID, chatID, c)
	return nil
}

// Broadcast pushes an event to every subscriber of the chat. Pushed messages count as seen by the room.
func (h *Hub) Broadcast(tenantID int64, chatID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[roomKey(tenantID, chatID)]
	if !ok {
		return
	}
	h.deliver(rm, event)
}

func (h *Hub) deliver(rm *room, event Event) {
	for _, msg := range event.Messages {
		rm.seen.add(msg.Key())
	}
	for c := range rm.clients {
		select {
		case c.send <- event:
		default:
			delete(rm.clients, c)
			c.close()
		}
	}
}

// Subscribers returns how many connections follow the chat.
func (h *Hub) Subscribers(tenantID int64, chatID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rm, ok := h.rooms[roomKey(tenantID, chatID)]; ok {
		return len(rm.clients)
	}
	return 0
}

// Rooms returns how many chats are being polled.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

func (h *Hub) register(tenantID int64, chatID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := roomKey(tenantID, chatID)
	rm, ok := h.rooms[key]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		rm = &room{tenantID: tenantID, chatID: chatID, clients: make(map[*client]struct{}), cancel: cancel}
		h.rooms[key] = rm
		go h.poll(ctx, rm)
	}
	rm.clients[c] = struct{}{}
}

func (h *Hub) unregister(tenantID int64, chatID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := roomKey(tenantID, chatID)
	if rm, ok := h.rooms[key]; ok {
		if _, member := rm.clients[c]; member {
			delete(rm.clients, c)
			c.close()
		}
		if len(rm.clients) == 0 {
			rm.cancel()
			delete(h.rooms, key)
		}
	}
}

func (h *Hub) poll(ctx context.Context, rm *room) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.pollOnce(ctx, rm)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.pollOnce(ctx, rm)
		}
	}
}

func (h *Hub) pollOnce(ctx context.Context, rm *room) {
	pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	entries, err := h.fetcher.Messages(pollCtx, rm.tenantID, rm.chatID, pollLimit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		h.log.WarnContext(ctx, "chat poll failed", "tenant_id", rm.tenantID, "chat_id", rm.chatID, "error", err)
		h.Broadcast(rm.tenantID, rm.chatID, Event{Type: EventError, ChatID: rm.chatID, Error: err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	var fresh []timeline.Entry
	for _, e := range entries {
		if !e.Pending && !rm.seen.has(e.Key()) {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return
	}
	h.deliver(rm, Event{Type: EventMessages, ChatID: rm.chatID, Messages: fresh})
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed; it returns when the peer leaves.
func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func roomKey(tenantID int64, chatID string) string {
	return fmt.Sprintf("%d/%s", tenantID, chatID)
}

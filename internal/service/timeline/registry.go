package timeline

import (
	"fmt"
	"sync"
	"time"
)

// Registry keeps one timeline per tenant chat, evicting the least recently used beyond a cap.
type Registry struct {
	mu       sync.Mutex
	items    map[string]*registryItem
	maxChats int
	limit    int
	now      func() time.Time
}

type registryItem struct {
	timeline *Timeline
	lastUsed time.Time
}

// NewRegistry builds a registry holding up to maxChats timelines of limit messages each.
func NewRegistry(maxChats, limit int) *Registry {
	if maxChats <= 0 {
		maxChats = 1000
	}
	return &Registry{items: make(map[string]*registryItem), maxChats: maxChats, limit: limit, now: time.Now}
}

// Get returns the timeline of a tenant chat, creating it on first use.
func (r *Registry) Get(tenantID int64, chatID string) *Timeline {
	key := fmt.Sprintf("%d/%s", tenantID, chatID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if item, ok := r.items[key]; ok {
		item.lastUsed = r.now()
		return item.timeline
	}
	if len(r.items) >= r.maxChats {
		r.evictOldest()
	}
	item := &registryItem{timeline: New(r.limit), lastUsed: r.now()}
	r.items[key] = item
	return item.timeline
}

// Len returns the number of timelines held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Registry) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, item := range r.items {
		if oldestKey == "" || item.lastUsed.Before(oldest) {
			oldestKey, oldest = key, item.lastUsed
		}
	}
	delete(r.items, oldestKey)
}

package timeline

import (
	"sort"
	"sync"

	"github.com/octobees/whatsapp-leads/api/internal/gateway"
)

// DefaultLimit bounds how many messages a timeline keeps.
const DefaultLimit = 500

// Entry is a message in a timeline. Pending entries are tentative local sends.
type Entry struct {
	gateway.Message
	Pending bool `json:"pending,omitempty"`
}

// Timeline is an ordered, de-duplicated view of a chat's messages.
type Timeline struct {
	mu      sync.Mutex
	entries []Entry
	deleted map[string]struct{}
	limit   int
}

// New builds an empty timeline keeping at most limit messages.
func New(limit int) *Timeline {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Timeline{deleted: make(map[string]struct{}), limit: limit}
}

// Merge folds fetched messages into the timeline and returns the ones not seen before, oldest first.
// Known messages are refreshed in place. Messages without an id or deleted locally are ignored.
func (t *Timeline) Merge(msgs []gateway.Message) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var added []Entry
	for _, msg := range msgs {
		key := msg.Key()
		if key == "" {
			continue
		}
		if _, gone := t.deleted[key]; gone {
			continue
		}
		if idx := t.indexOf(key); idx >= 0 {
			t.entries[idx] = Entry{Message: msg}
			continue
		}
		entry := Entry{Message: msg}
		t.entries = append(t.entries, entry)
		added = append(added, entry)
	}
	t.normalize()
	sortEntries(added)
	return added
}

// Entries returns a copy of the timeline, oldest first.
func (t *Timeline) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of messages held.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Timeline) add(entry Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx := t.indexOf(entry.Key()); idx >= 0 {
		t.entries[idx] = entry
	} else {
		t.entries = append(t.entries, entry)
	}
	t.normalize()
}

func (t *Timeline) remove(key string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.indexOf(key)
	if idx < 0 {
		return Entry{}, false
	}
	entry := t.entries[idx]
	t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
	return entry, true
}

func (t *Timeline) tombstone(key string, on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if on {
		t.deleted[key] = struct{}{}
		return
	}
	delete(t.deleted, key)
}

func (t *Timeline) indexOf(key string) int {
	for i := range t.entries {
		if t.entries[i].Key() == key {
			return i
		}
	}
	return -1
}

// normalize sorts ascending and drops the oldest entries beyond the limit. Callers hold mu.
func (t *Timeline) normalize() {
	sortEntries(t.entries)
	if over := len(t.entries) - t.limit; over > 0 {
		t.entries = append([]Entry(nil), t.entries[over:]...)
	}
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp < entries[j].Timestamp
		}
		return entries[i].Key() < entries[j].Key()
	})
}

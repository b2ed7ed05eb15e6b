package service

import (
	"strings"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
)

// Range presets offered by the dashboard.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	Preset7Days     = "7days"
	Preset30Days    = "30days"
)

// RangeQuery is a requested reporting window: a preset or explicit dates (RFC3339 or YYYY-MM-DD).
type RangeQuery struct {
	Preset string
	Start  string
	End    string
}

// Key identifies the query in cache keys.
func (q RangeQuery) Key() string {
	return strings.Join([]string{q.Preset, q.Start, q.End}, ",")
}

// ResolveRange turns a query into a day range in the tenant's offset. Explicit dates win over the preset,
// malformed dates are ignored. With nothing usable it falls back to the last defaultDays days ending today,
// or reports false when defaultDays is zero (no date bound).
func ResolveRange(q RangeQuery, offset funnel.Offset, now time.Time, defaultDays int) (funnel.Range, bool) {
	start, hasStart := parseDate(q.Start, offset)
	end, hasEnd := parseDate(q.End, offset)

	switch {
	case hasStart && hasEnd:
		return offset.NewRange(start, end), true
	case hasStart:
		return offset.NewRange(start, now), true
	case hasEnd:
		return offset.NewRange(end.AddDate(0, 0, -30), end), true
	}

	switch strings.ToLower(strings.TrimSpace(q.Preset)) {
	case PresetToday:
		return offset.NewRange(now, now), true
	case PresetYesterday:
		y := now.AddDate(0, 0, -1)
		return offset.NewRange(y, y), true
	case Preset7Days:
		return offset.NewRange(now.AddDate(0, 0, -7), now), true
	case Preset30Days:
		return offset.NewRange(now.AddDate(0, 0, -30), now), true
	}

	if defaultDays > 0 {
		return offset.NewRange(now.AddDate(0, 0, -defaultDays), now), true
	}
	return funnel.Range{}, false
}

// parseDate reads an RFC3339 instant, or a calendar date taken as local midnight.
func parseDate(raw string, offset funnel.Offset) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if d, err := time.Parse(funnel.DateLayout, raw); err == nil {
		return d.Add(-offset.Duration()), true
	}
	return time.Time{}, false
}

package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ReportStore caches computed dashboard reports per tenant.
type ReportStore struct {
	client *Client
	ttl    time.Duration
}

// NewReportStore wires a report cache with the given entry lifetime.
func NewReportStore(client *Client, ttl time.Duration) *ReportStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReportStore{client: client, ttl: ttl}
}

// ReportKey builds the cache key of a report variant for a tenant.
func ReportKey(tenantID int64, kind string, parts ...string) string {
	key := fmt.Sprintf("reports:%d:%s", tenantID, kind)
	if len(parts) > 0 {
		key += ":" + strings.Join(parts, "|")
	}
	return key
}

// Get loads a cached report into dst.
func (s *ReportStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	return s.client.GetJSON(ctx, key, dst)
}

// Put stores a report.
func (s *ReportStore) Put(ctx context.Context, key string, report any) error {
	return s.client.SetJSON(ctx, key, report, s.ttl)
}

// InvalidateTenant drops every cached report of the tenant.
func (s *ReportStore) InvalidateTenant(ctx context.Context, tenantID int64) error {
	_, err := s.client.DeletePattern(ctx, fmt.Sprintf("reports:%d:*", tenantID))
	return err
}

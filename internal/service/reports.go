package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/cache"
	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
)

// SeriesDefaultDays is the default span of the leads-over-time chart, ending today.
const SeriesDefaultDays = 30

// ReportCache stores computed reports per tenant.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Put(ctx context.Context, key string, report any) error
	InvalidateTenant(ctx context.Context, tenantID int64) error
}

// RangeInfo echoes the resolved window of a report.
type RangeInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DashboardStats is the headline counters plus the funnel for a window.
type DashboardStats struct {
	QualifiedCount    int                 `json:"qualified_count"`
	InProgressCount   int                 `json:"in_progress_count"`
	DisqualifiedCount int                 `json:"disqualified_count"`
	TotalCount        int                 `json:"total_count"`
	Funnel            []funnel.Step       `json:"funnel"`
	StepConversion    []funnel.Conversion `json:"step_conversion"`
	Range             *RangeInfo          `json:"range,omitempty"`
}

// ReportService computes dashboard reports from the lead store. Store failures degrade to empty reports.
type ReportService struct {
	leads     repository.LeadsRepository
	companies repository.CompaniesRepository
	cache     ReportCache
	offset    funnel.Offset
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewReportService wires the reporting service. cache may be nil.
func NewReportService(leads repository.LeadsRepository, companies repository.CompaniesRepository, reportCache ReportCache, offset funnel.Offset, log *slog.Logger, m *metrics.Metrics) *ReportService {
	return &ReportService{
		leads:     leads,
		companies: companies,
		cache:     reportCache,
		offset:    offset,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

// Offset returns the tenant offset the service buckets with.
func (s *ReportService) Offset() funnel.Offset { return s.offset }

// Stats returns the dashboard counters and funnel. Without a usable window, all leads are counted.
func (s *ReportService) Stats(ctx context.Context, tenantID int64, q RangeQuery, area string) DashboardStats {
	r, bounded := ResolveRange(q, s.offset, s.now(), 0)
	filter := repository.LeadFilter{TenantID: tenantID, Area: area}
	rangeKey := "all"
	var info *RangeInfo
	if bounded {
		from, to := r.Bounds()
		filter.From, filter.To = &from, &to
		rangeKey = r.Start.Format(funnel.DateLayout) + ".." + r.End.Format(funnel.DateLayout)
		info = &RangeInfo{Start: r.Start.Format(funnel.DateLayout), End: r.End.Format(funnel.DateLayout)}
	}

	key := cache.ReportKey(tenantID, "stats", rangeKey, area)
	var stats DashboardStats
	if s.load(ctx, "stats", key, &stats) {
		return stats
	}

	leads, ok := s.query(ctx, "stats", filter)
	totals := funnel.Count(leads)
	report := funnel.Compute(leads)
	stats = DashboardStats{
		QualifiedCount:    totals.Completed,
		InProgressCount:   totals.InProgress,
		DisqualifiedCount: totals.Disqualified,
		TotalCount:        totals.Total,
		Funnel:            report.Funnel,
		StepConversion:    report.StepConversion,
		Range:             info,
	}
	if ok {
		s.store(ctx, key, stats)
	}
	return stats
}

// LeadsOverTime returns one bucket per local day of the window, defaulting to the last 30 days.
func (s *ReportService) LeadsOverTime(ctx context.Context, tenantID int64, q RangeQuery) []funnel.DailyBucket {
	r, _ := ResolveRange(q, s.offset, s.now(), SeriesDefaultDays)
	from, to := r.Bounds()

	key := cache.ReportKey(tenantID, "series", r.Start.Format(funnel.DateLayout), r.End.Format(funnel.DateLayout))
	var buckets []funnel.DailyBucket
	if s.load(ctx, "series", key, &buckets) && len(buckets) == r.Days() {
		return buckets
	}

	leads, ok := s.query(ctx, "series", repository.LeadFilter{TenantID: tenantID, From: &from, To: &to})
	buckets = funnel.Aggregate(r, leads)
	if ok {
		s.store(ctx, key, buckets)
	}
	return buckets
}

// Scripts returns the tenant's configured script areas.
func (s *ReportService) Scripts(ctx context.Context, tenantID int64) []string {
	company, err := s.companies.Get(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, repository.ErrTenantNotFound) {
			s.metrics.RecordStoreFailure("scripts")
			s.log.ErrorContext(ctx, "load scripts failed", "tenant_id", tenantID, "error", err)
		}
		return []string{}
	}
	if company.Areas == nil {
		return []string{}
	}
	return company.Areas
}

// Invalidate drops the cached reports of the tenant.
func (s *ReportService) Invalidate(ctx context.Context, tenantID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
		s.log.WarnContext(ctx, "invalidate report cache failed", "tenant_id", tenantID, "error", err)
	}
}

func (s *ReportService) query(ctx context.Context, operation string, filter repository.LeadFilter) ([]entity.Lead, bool) {
	leads, err := s.leads.Query(ctx, filter)
	if err != nil {
		s.metrics.RecordStoreFailure(operation)
		s.log.ErrorContext(ctx, "lead query failed", "operation", operation, "tenant_id", filter.TenantID, "error", err)
		return nil, false
	}
	return leads, true
}

func (s *ReportService) load(ctx context.Context, report, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.WarnContext(ctx, "report cache read failed", "key", key, "error", err)
		hit = false
	}
	s.metrics.RecordCache(report, hit)
	return hit
}

func (s *ReportService) store(ctx context.Context, key string, report any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, report); err != nil {
		s.log.WarnContext(ctx, "report cache write failed", "key", key, "error", err)
	}
}

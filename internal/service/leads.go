package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/metrics"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
)

// Lead list limits.
const (
	DefaultLeadLimit = 100
	MaxLeadLimit     = 1000
)

// LeadListQuery narrows the lead list. A Limit of zero or less returns up to MaxLeadLimit leads.
type LeadListQuery struct {
	Range  RangeQuery
	Area   string
	Status string
	Limit  int
}

// LeadPage is one page of the lead list with the count before the limit.
type LeadPage struct {
	Data  []entity.Lead `json:"data"`
	Count int           `json:"count"`
}

// BoardColumn is one Kanban column.
type BoardColumn struct {
	Stage funnel.Stage  `json:"stage"`
	Title string        `json:"title"`
	Leads []entity.Lead `json:"leads"`
}

// Invalidator drops cached reports of a tenant.
type Invalidator interface {
	Invalidate(ctx context.Context, tenantID int64)
}

// LeadService lists leads and applies board and automation changes.
type LeadService struct {
	repo    repository.LeadsRepository
	reports Invalidator
	offset  funnel.Offset
	region  string
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLeadService wires the lead service. reports may be nil.
func NewLeadService(repo repository.LeadsRepository, reports Invalidator, offset funnel.Offset, region string, log *slog.Logger, m *metrics.Metrics) *LeadService {
	return &LeadService{repo: repo, reports: reports, offset: offset, region: region, log: log, metrics: m, now: time.Now}
}

// List returns the newest leads matching the query. A failing store yields an empty page.
func (s *LeadService) List(ctx context.Context, tenantID int64, q LeadListQuery) LeadPage {
	filter := repository.LeadFilter{TenantID: tenantID, Area: q.Area}
	if r, ok := ResolveRange(q.Range, s.offset, s.now(), 0); ok {
		from, to := r.Bounds()
		filter.From, filter.To = &from, &to
	}

	leads, err := s.repo.Query(ctx, filter)
	if err != nil {
		s.metrics.RecordStoreFailure("leads_list")
		s.log.ErrorContext(ctx, "list leads failed", "tenant_id", tenantID, "error", err)
		return LeadPage{Data: []entity.Lead{}}
	}

	if status := strings.TrimSpace(q.Status); status != "" && !strings.EqualFold(status, "all") {
		stage, ok := funnel.ParseStage(status)
		if !ok {
			return LeadPage{Data: []entity.Lead{}}
		}
		filtered := leads[:0]
		for _, lead := range leads {
			if funnel.Classify(lead.Status) == stage {
				filtered = append(filtered, lead)
			}
		}
		leads = filtered
	}

	count := len(leads)
	if limit := clampLimit(q.Limit); count > limit {
		leads = leads[:limit]
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return LeadPage{Data: leads, Count: count}
}

// Board groups every lead of the tenant into the three stage columns.
func (s *LeadService) Board(ctx context.Context, tenantID int64) []BoardColumn {
	columns := make([]BoardColumn, len(funnel.Stages))
	index := make(map[funnel.Stage]int, len(funnel.Stages))
	for i, stage := range funnel.Stages {
		columns[i] = BoardColumn{Stage: stage, Title: stage.Literal(), Leads: []entity.Lead{}}
		index[stage] = i
	}

	leads, err := s.repo.Query(ctx, repository.LeadFilter{TenantID: tenantID})
	if err != nil {
		s.metrics.RecordStoreFailure("leads_board")
		s.log.ErrorContext(ctx, "load board failed", "tenant_id", tenantID, "error", err)
		return columns
	}
	for _, lead := range leads {
		i := index[funnel.Classify(lead.Status)]
		columns[i].Leads = append(columns[i].Leads, lead)
	}
	return columns
}

// UpdateStatus moves a lead to another stage, storing the stage literal.
func (s *LeadService) UpdateStatus(ctx context.Context, tenantID, leadID int64, status string) (funnel.Stage, error) {
	stage, ok := funnel.ParseStage(status)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(ctx, tenantID, leadID, stage.Literal()); err != nil {
		if !errors.Is(err, repository.ErrLeadNotFound) {
			s.metrics.RecordStoreFailure("leads_update_status")
		}
		return "", err
	}
	s.invalidate(ctx, tenantID)
	return stage, nil
}

// SetAutomation hands the conversation with the phone to the agent or to a human.
func (s *LeadService) SetAutomation(ctx context.Context, tenantID int64, phone string, enabled bool) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%w: phone", ErrMissingField)
	}
	candidates := PhoneCandidates(phone, s.region)
	if len(candidates) == 0 {
		return repository.ErrLeadNotFound
	}

	updated, err := s.repo.SetAutomation(ctx, tenantID, candidates, enabled)
	if err != nil {
		if !errors.Is(err, repository.ErrLeadNotFound) {
			s.metrics.RecordStoreFailure("leads_automation")
		}
		return err
	}
	if updated == 0 {
		return repository.ErrLeadNotFound
	}
	return nil
}

func (s *LeadService) invalidate(ctx context.Context, tenantID int64) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, tenantID)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLeadLimit {
		return MaxLeadLimit
	}
	return limit
}

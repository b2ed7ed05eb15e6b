package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
	"github.com/octobees/whatsapp-leads/api/internal/logger"
	"github.com/octobees/whatsapp-leads/api/internal/repository"
	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
)

type recordingInvalidator struct {
	tenants []int64
}

func (r *recordingInvalidator) Invalidate(_ context.Context, tenantID int64) {
	r.tenants = append(r.tenants, tenantID)
}

func sampleLeads() []entity.Lead {
	created := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	return []entity.Lead{
		leadWithStatus(5, "Concluído", created),
		leadWithStatus(4, "Em andamento", created),
		leadWithStatus(3, "concluido", created),
		leadWithStatus(2, "Desqualificado", created),
		leadWithStatus(1, "", created),
	}
}

func TestLeadService_List(t *testing.T) {
	tests := map[string]struct {
		query     LeadListQuery
		wantIDs   []int64
		wantCount int
	}{
		"all leads":        {query: LeadListQuery{Limit: 100}, wantIDs: []int64{5, 4, 3, 2, 1}, wantCount: 5},
		"status all":       {query: LeadListQuery{Status: "all", Limit: 2}, wantIDs: []int64{5, 4}, wantCount: 5},
		"completed":        {query: LeadListQuery{Status: "completed", Limit: 100}, wantIDs: []int64{5, 3}, wantCount: 2},
		"literal status":   {query: LeadListQuery{Status: "Em andamento", Limit: 100}, wantIDs: []int64{4, 1}, wantCount: 2},
		"count over limit": {query: LeadListQuery{Status: "in_progress", Limit: 1}, wantIDs: []int64{4}, wantCount: 2},
		"unknown status":   {query: LeadListQuery{Status: "won", Limit: 100}, wantIDs: []int64{}, wantCount: 0},
		"unlimited":        {query: LeadListQuery{Limit: 0}, wantIDs: []int64{5, 4, 3, 2, 1}, wantCount: 5},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &mockLeadsRepository{query: func(_ context.Context, filter repository.LeadFilter) ([]entity.Lead, error) {
				if filter.TenantID != 7 {
					t.Fatalf("expected tenant 7, got %d", filter.TenantID)
				}
				return sampleLeads(), nil
			}}
			svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

			page := svc.List(context.Background(), 7, tc.query)
			if page.Count != tc.wantCount {
				t.Fatalf("expected count %d, got %d", tc.wantCount, page.Count)
			}
			if len(page.Data) != len(tc.wantIDs) {
				t.Fatalf("expected %d leads, got %d", len(tc.wantIDs), len(page.Data))
			}
			for i, id := range tc.wantIDs {
				if page.Data[i].ID != id {
					t.Fatalf("position %d: expected lead %d, got %d", i, id, page.Data[i].ID)
				}
			}
		})
	}
}

func TestLeadService_ListDegradesOnStoreFailure(t *testing.T) {
	repo := &mockLeadsRepository{query: func(context.Context, repository.LeadFilter) ([]entity.Lead, error) {
		return nil, errors.New("boom")
	}}
	svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

	page := svc.List(context.Background(), 7, LeadListQuery{})
	if page.Data == nil || len(page.Data) != 0 || page.Count != 0 {
		t.Fatalf("expected an empty page, got %+v", page)
	}
}

func TestLeadService_ListPassesRange(t *testing.T) {
	var got repository.LeadFilter
	repo := &mockLeadsRepository{query: func(_ context.Context, filter repository.LeadFilter) ([]entity.Lead, error) {
		got = filter
		return nil, nil
	}}
	svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

	svc.List(context.Background(), 7, LeadListQuery{Range: RangeQuery{Start: "2024-05-01", End: "2024-05-01"}, Area: "Vendas"})
	if got.From == nil || got.To == nil {
		t.Fatalf("expected bounds")
	}
	if want := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC); !got.From.Equal(want) {
		t.Fatalf("expected from %s, got %s", want, got.From)
	}
	if got.Area != "Vendas" {
		t.Fatalf("expected area Vendas, got %q", got.Area)
	}
}

func TestLeadService_Board(t *testing.T) {
	repo := &mockLeadsRepository{query: func(context.Context, repository.LeadFilter) ([]entity.Lead, error) {
		return sampleLeads(), nil
	}}
	svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

	columns := svc.Board(context.Background(), 7)
	if len(columns) != 3 {
		t.Fatalf("expected three columns, got %d", len(columns))
	}
	want := map[funnel.Stage]int{funnel.StageInProgress: 2, funnel.StageCompleted: 2, funnel.StageDisqualified: 1}
	for _, column := range columns {
		if len(column.Leads) != want[column.Stage] {
			t.Fatalf("column %s: expected %d leads, got %d", column.Stage, want[column.Stage], len(column.Leads))
		}
	}
	if columns[0].Stage != funnel.StageInProgress || columns[0].Title != "Em andamento" {
		t.Fatalf("unexpected first column: %+v", columns[0])
	}
}

func TestLeadService_BoardStoreFailure(t *testing.T) {
	repo := &mockLeadsRepository{query: func(context.Context, repository.LeadFilter) ([]entity.Lead, error) {
		return nil, errors.New("boom")
	}}
	svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

	for _, column := range svc.Board(context.Background(), 7) {
		if column.Leads == nil || len(column.Leads) != 0 {
			t.Fatalf("expected empty columns, got %+v", column)
		}
	}
}

func TestLeadService_UpdateStatus(t *testing.T) {
	tests := map[string]struct {
		status      string
		repoErr     error
		wantLiteral string
		wantErr     error
	}{
		"stage name": {status: "disqualified", wantLiteral: "Desqualificado"},
		"literal":    {status: "Concluído", wantLiteral: "Concluído"},
		"unaccented": {status: "concluido", wantLiteral: "Concluído"},
		"invalid":    {status: "won", wantErr: ErrInvalidStatus},
		"not found":  {status: "completed", repoErr: repository.ErrLeadNotFound, wantErr: repository.ErrLeadNotFound},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var stored string
			repo := &mockLeadsRepository{updateStatus: func(_ context.Context, tenantID, leadID int64, status string) error {
				if tenantID != 7 || leadID != 42 {
					t.Fatalf("unexpected scope %d/%d", tenantID, leadID)
				}
				stored = status
				return tc.repoErr
			}}
			inv := &recordingInvalidator{}
			svc := NewLeadService(repo, inv, funnel.Offset(-3), "BR", logger.Discard(), nil)

			_, err := svc.UpdateStatus(context.Background(), 7, 42, tc.status)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if len(inv.tenants) != 0 {
					t.Fatalf("expected no invalidation on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored != tc.wantLiteral {
				t.Fatalf("expected %q stored, got %q", tc.wantLiteral, stored)
			}
			if len(inv.tenants) != 1 || inv.tenants[0] != 7 {
				t.Fatalf("expected tenant 7 invalidated, got %v", inv.tenants)
			}
		})
	}
}

func TestLeadService_SetAutomation(t *testing.T) {
	var gotEnabled bool
	repo := &mockLeadsRepository{setAutomation: func(_ context.Context, _ int64, phones []string, enabled bool) (int64, error) {
		gotEnabled = enabled
		for _, phone := range phones {
			if phone == "5511987654321" {
				return 1, nil
			}
		}
		return 0, nil
	}}
	svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

	if err := svc.SetAutomation(context.Background(), 7, "+55 (11) 98765-4321", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotEnabled {
		t.Fatalf("expected enabled")
	}
	if err := svc.SetAutomation(context.Background(), 7, "+55 11 99999-0000", false); !errors.Is(err, repository.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
	if err := svc.SetAutomation(context.Background(), 7, "  ", true); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
}

func TestLeadService_SetAutomationMatchesNationalForm(t *testing.T) {
	const stored = "11987654321"
	var gotPhones []string
	repo := &mockLeadsRepository{setAutomation: func(_ context.Context, _ int64, phones []string, _ bool) (int64, error) {
		gotPhones = phones
		for _, phone := range phones {
			if phone == stored {
				return 1, nil
			}
		}
		return 0, nil
	}}
	svc := NewLeadService(repo, nil, funnel.Offset(-3), "BR", logger.Discard(), nil)

	if err := svc.SetAutomation(context.Background(), 7, "(11) 98765-4321", true); err != nil {
		t.Fatalf("expected the national form to match, got %v (candidates %v)", err, gotPhones)
	}
}

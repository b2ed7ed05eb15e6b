package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
)

// ErrLeadNotFound indicates no lead of the tenant matched the update.
var ErrLeadNotFound = errors.New("lead not found")

// LeadFilter narrows a lead query. The tenant is mandatory.
type LeadFilter struct {
	TenantID int64
	From     *time.Time
	To       *time.Time
	Area     string
}

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	Query(ctx context.Context, filter LeadFilter) ([]entity.Lead, error)
	FindByPhones(ctx context.Context, tenantID int64, phones []string) (map[string]entity.Lead, error)
	UpdateStatus(ctx context.Context, tenantID, leadID int64, status string) error
	SetAutomation(ctx context.Context, tenantID int64, phones []string, enabled bool) (int64, error)
}

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumnsSQL = `
            id,
            id_empresa,
            nome,
            telefone,
            COALESCE("Status", ''),
            area,
            "resumo da conversa",
            jsonb_build_array(
                to_jsonb(t1), to_jsonb(t2), to_jsonb(t3), to_jsonb(t4),
                to_jsonb(t5), to_jsonb(t6), to_jsonb(t7), to_jsonb(t8),
                to_jsonb(t9), to_jsonb(t10), to_jsonb(t11), to_jsonb(t12)
            ),
            to_jsonb(follow_up_1_enviado),
            to_jsonb(follow_up_2_enviado),
            to_jsonb("IA_responde"),
            created_at
`

// Query returns the tenant's leads newest first, optionally bounded by creation time and area.
func (r *PGXLeadsRepository) Query(ctx context.Context, filter LeadFilter) ([]entity.Lead, error) {
	if filter.TenantID <= 0 {
		return nil, fmt.Errorf("tenant id is required")
	}

	query := strings.Builder{}
	query.WriteString("SELECT")
	query.WriteString(leadColumnsSQL)
	query.WriteString("        FROM leads")

	clauses := []string{"id_empresa = $1"}
	args := []any{filter.TenantID}
	idx := 2

	if filter.From != nil {
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", idx))
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", idx))
		args = append(args, *filter.To)
		idx++
	}
	if area := strings.TrimSpace(filter.Area); area != "" && !strings.EqualFold(area, "all") {
		clauses = append(clauses, fmt.Sprintf("area = $%d", idx))
		args = append(args, area)
	}

	query.WriteString(" WHERE ")
	query.WriteString(strings.Join(clauses, " AND "))
	query.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// FindByPhones maps digit-only phone numbers to the tenant's most recent lead with that number.
func (r *PGXLeadsRepository) FindByPhones(ctx context.Context, tenantID int64, phones []string) (map[string]entity.Lead, error) {
	result := make(map[string]entity.Lead)
	digits := make([]string, 0, len(phones))
	for _, phone := range phones {
		if d := Digits(phone); d != "" {
			digits = append(digits, d)
		}
	}
	if len(digits) == 0 {
		return result, nil
	}

	query := "SELECT" + leadColumnsSQL + "        FROM leads WHERE id_empresa = $1 AND " +
		fmt.Sprintf(digitsColumnSQL, "telefone") + " = ANY($2) ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, tenantID, digits)
	if err != nil {
		return nil, fmt.Errorf("query leads by phone: %w", err)
	}
	defer rows.Close()

	leads, err := scanLeads(rows)
	if err != nil {
		return nil, err
	}
	for _, lead := range leads {
		if lead.Phone == nil {
			continue
		}
		key := Digits(*lead.Phone)
		if _, seen := result[key]; !seen {
			result[key] = lead
		}
	}
	return result, nil
}

// UpdateStatus persists a new status literal for one of the tenant's leads.
func (r *PGXLeadsRepository) UpdateStatus(ctx context.Context, tenantID, leadID int64, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE leads SET "Status" = $1 WHERE id = $2 AND id_empresa = $3`, status, leadID, tenantID)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// SetAutomation toggles the AI responder for every lead of the tenant whose phone digits match one of phones.
func (r *PGXLeadsRepository) SetAutomation(ctx context.Context, tenantID int64, phones []string, enabled bool) (int64, error) {
	digits := make([]string, 0, len(phones))
	for _, phone := range phones {
		if d := Digits(phone); d != "" {
			digits = append(digits, d)
		}
	}
	if len(digits) == 0 {
		return 0, ErrLeadNotFound
	}

	query := `UPDATE leads SET "IA_responde" = $1 WHERE id_empresa = $2 AND ` + fmt.Sprintf(digitsColumnSQL, "telefone") + ` = ANY($3)`
	cmd, err := r.pool.Exec(ctx, query, enabled, tenantID, digits)
	if err != nil {
		return 0, fmt.Errorf("update lead automation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return 0, ErrLeadNotFound
	}
	return cmd.RowsAffected(), nil
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	var leads []entity.Lead
	for rows.Next() {
		var (
			lead        entity.Lead
			name        sql.NullString
			phone       sql.NullString
			area        sql.NullString
			summary     sql.NullString
			checkpoints []byte
			followUp1   []byte
			followUp2   []byte
			aiResponds  []byte
		)
		if err := rows.Scan(
			&lead.ID,
			&lead.TenantID,
			&name,
			&phone,
			&lead.Status,
			&area,
			&summary,
			&checkpoints,
			&followUp1,
			&followUp2,
			&aiResponds,
			&lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}

		lead.Name = nullStringPtr(name)
		lead.Phone = nullStringPtr(phone)
		lead.Area = nullStringPtr(area)
		lead.Summary = nullStringPtr(summary)
		lead.FollowUp1Sent = entity.Flag(followUp1)
		lead.FollowUp2Sent = entity.Flag(followUp2)
		lead.AIResponds = entity.Flag(aiResponds)

		if len(checkpoints) > 0 {
			var flags []entity.Flag
			if err := json.Unmarshal(checkpoints, &flags); err != nil {
				return nil, fmt.Errorf("decode lead checkpoints: %w", err)
			}
			copy(lead.Checkpoints[:], flags)
		}

		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
)

// ErrDistributionNotFound indicates the contact does not exist for the tenant.
var ErrDistributionNotFound = errors.New("distribution contact not found")

// DistributionRepository describes persistence operations for the lead distribution list.
type DistributionRepository interface {
	List(ctx context.Context, tenantID int64) ([]entity.DistributionContact, error)
	Save(ctx context.Context, contact *entity.DistributionContact) (*entity.DistributionContact, error)
	Delete(ctx context.Context, tenantID, id int64) error
	ResetDaily(ctx context.Context) (int64, error)
}

// PGXDistributionRepository implements DistributionRepository using pgx.
type PGXDistributionRepository struct {
	pool pgxPool
}

// NewPGXDistributionRepository wires a pgx backed repository.
func NewPGXDistributionRepository(pool *pgxpool.Pool) *PGXDistributionRepository {
	return &PGXDistributionRepository{pool: pool}
}

const distributionColumnsSQL = `id, id_numero, COALESCE("Nome", ''), COALESCE("Telefone", ''), link_planilha,
            COALESCE("Limit. p/ dia", 0), COALESCE("Leads hoje", 0), COALESCE("Leads total", 0),
            COALESCE(atingiu_limite, false), created_at`

// List returns the tenant's distribution contacts ordered by name.
func (r *PGXDistributionRepository) List(ctx context.Context, tenantID int64) ([]entity.DistributionContact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+distributionColumnsSQL+` FROM "TeuCliente" WHERE id_numero = $1 ORDER BY "Nome" ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list distribution contacts: %w", err)
	}
	defer rows.Close()

	var contacts []entity.DistributionContact
	for rows.Next() {
		contact, err := scanDistributionContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan distribution contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution contacts: %w", err)
	}
	return contacts, nil
}

// Save inserts the contact, or updates it when an id is set. Updates are scoped to the contact's tenant.
func (r *PGXDistributionRepository) Save(ctx context.Context, contact *entity.DistributionContact) (*entity.DistributionContact, error) {
	if contact == nil {
		return nil, fmt.Errorf("distribution contact payload is nil")
	}

	limit := contact.DailyLimit
	if limit <= 0 {
		limit = entity.DefaultDailyLimit
	}

	var row pgx.Row
	if contact.ID > 0 {
		row = r.pool.QueryRow(ctx, `
        UPDATE "TeuCliente" SET
            "Nome" = $1,
            "Telefone" = $2,
            link_planilha = $3,
            "Limit. p/ dia" = $4
        WHERE id = $5 AND id_numero = $6
        RETURNING `+distributionColumnsSQL,
			contact.Name, contact.Phone, contact.SheetURL, limit, contact.ID, contact.TenantID)
	} else {
		row = r.pool.QueryRow(ctx, `
        INSERT INTO "TeuCliente" ("Nome", "Telefone", id_numero, link_planilha, "Limit. p/ dia", "Leads hoje", "Leads total", atingiu_limite)
        VALUES ($1, $2, $3, $4, $5, $6, $7, false)
        RETURNING `+distributionColumnsSQL,
			contact.Name, contact.Phone, contact.TenantID, contact.SheetURL, limit, contact.LeadsToday, contact.LeadsTotal)
	}

	saved, err := scanDistributionContact(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrDistributionNotFound
		}
		return nil, fmt.Errorf("save distribution contact: %w", err)
	}
	return saved, nil
}

// Delete removes one of the tenant's contacts.
func (r *PGXDistributionRepository) Delete(ctx context.Context, tenantID, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM "TeuCliente" WHERE id = $1 AND id_numero = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete distribution contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrDistributionNotFound
	}
	return nil
}

// ResetDaily zeroes the per-day counters of every contact and clears the limit flag.
func (r *PGXDistributionRepository) ResetDaily(ctx context.Context) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE "TeuCliente" SET "Leads hoje" = 0, atingiu_limite = false WHERE COALESCE("Leads hoje", 0) <> 0 OR COALESCE(atingiu_limite, false)`)
	if err != nil {
		return 0, fmt.Errorf("reset distribution counters: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanDistributionContact(row rowScanner) (*entity.DistributionContact, error) {
	var (
		contact  entity.DistributionContact
		sheetURL sql.NullString
	)
	if err := row.Scan(
		&contact.ID,
		&contact.TenantID,
		&contact.Name,
		&contact.Phone,
		&sheetURL,
		&contact.DailyLimit,
		&contact.LeadsToday,
		&contact.LeadsTotal,
		&contact.LimitReached,
		&contact.CreatedAt,
	); err != nil {
		return nil, err
	}
	contact.SheetURL = sheetURL.String
	return &contact, nil
}

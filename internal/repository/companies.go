package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/whatsapp-leads/api/internal/entity"
)

var (
	// ErrTenantNotFound is returned when no company matches the lookup criteria.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrCredentialsMissing indicates the tenant has no usable gateway token or URL.
	ErrCredentialsMissing = errors.New("gateway credentials not configured")
)

// ProfileUpdate carries the editable company fields. Nil pointers are left untouched.
type ProfileUpdate struct {
	Name       *string
	Address    *string
	WPPToken   *string
	Phone      *string
	GatewayURL *string
}

// CompaniesRepository describes persistence operations for tenant companies.
type CompaniesRepository interface {
	FindByPhone(ctx context.Context, phone string) (*entity.Company, error)
	Get(ctx context.Context, id int64) (*entity.Company, error)
	Update(ctx context.Context, id int64, update ProfileUpdate) (*entity.Company, error)
	GatewayCredentials(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error)
}

// PGXCompaniesRepository implements CompaniesRepository using pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository wires a pgx backed repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

const companyColumnsSQL = `id, COALESCE(nome, ''), endereco, telefone, token_wpp, url_uazapi,
            area_1, area_2, area_3, area_4, area_5, area_6, created_at`

// FindByPhone looks a company up by its phone, comparing digits only.
func (r *PGXCompaniesRepository) FindByPhone(ctx context.Context, phone string) (*entity.Company, error) {
	digits := Digits(phone)
	if digits == "" {
		return nil, ErrTenantNotFound
	}
	query := "SELECT " + companyColumnsSQL + " FROM empresa WHERE " +
		fmt.Sprintf(digitsColumnSQL, "telefone") + " = $1 ORDER BY id LIMIT 1"
	company, err := scanCompany(r.pool.QueryRow(ctx, query, digits))
	if err != nil {
		return nil, fmt.Errorf("query company by phone: %w", err)
	}
	return company, nil
}

// Get retrieves a company by identifier.
func (r *PGXCompaniesRepository) Get(ctx context.Context, id int64) (*entity.Company, error) {
	company, err := scanCompany(r.pool.QueryRow(ctx, "SELECT "+companyColumnsSQL+" FROM empresa WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("query company by id: %w", err)
	}
	return company, nil
}

// Update patches profile attributes.
func (r *PGXCompaniesRepository) Update(ctx context.Context, id int64, update ProfileUpdate) (*entity.Company, error) {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	for _, field := range []struct {
		column string
		value  *string
	}{
		{"nome", update.Name},
		{"endereco", update.Address},
		{"token_wpp", update.WPPToken},
		{"telefone", update.Phone},
		{"url_uazapi", update.GatewayURL},
	} {
		if field.value == nil {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, idx))
		args = append(args, *field.value)
		idx++
	}

	if len(setClauses) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE empresa SET %s WHERE id = $%d RETURNING %s", strings.Join(setClauses, ", "), idx, companyColumnsSQL)

	company, err := scanCompany(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

// GatewayCredentials returns the tenant's WhatsApp gateway token and base URL.
func (r *PGXCompaniesRepository) GatewayCredentials(ctx context.Context, tenantID int64) (entity.GatewayCredentials, error) {
	var token, baseURL sql.NullString
	err := r.pool.QueryRow(ctx, `SELECT token_uazapi, url_uazapi FROM numero_dos_atendentes WHERE id = $1`, tenantID).Scan(&token, &baseURL)
	if err != nil {
		if isNoRows(err) {
			return entity.GatewayCredentials{}, ErrCredentialsMissing
		}
		return entity.GatewayCredentials{}, fmt.Errorf("query gateway credentials: %w", err)
	}

	creds := entity.GatewayCredentials{
		Token:   strings.TrimSpace(token.String),
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL.String), "/"),
	}
	if creds.Token == "" || creds.BaseURL == "" {
		return entity.GatewayCredentials{}, ErrCredentialsMissing
	}
	return creds, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var (
		company                      entity.Company
		address, phone, token, gwURL sql.NullString
		areas                        [6]sql.NullString
	)
	err := row.Scan(
		&company.ID,
		&company.Name,
		&address,
		&phone,
		&token,
		&gwURL,
		&areas[0], &areas[1], &areas[2], &areas[3], &areas[4], &areas[5],
		&company.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	company.Address = nullStringPtr(address)
	company.Phone = nullStringPtr(phone)
	company.WPPToken = nullStringPtr(token)
	company.GatewayURL = nullStringPtr(gwURL)
	company.Areas = make([]string, 0, len(areas))
	seen := make(map[string]struct{}, len(areas))
	for _, area := range areas {
		name := strings.TrimSpace(area.String)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		company.Areas = append(company.Areas, name)
	}
	return &company, nil
}

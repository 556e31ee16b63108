package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukbizhub/directory-api/internal/dto"
	"github.com/ukbizhub/directory-api/internal/entity"
)

// ErrBusinessNotFound indicates no business matches the lookup criteria.
var ErrBusinessNotFound = errors.New("business not found")

// pgxPool is the subset of pgxpool.Pool used by the repositories, extracted
// so tests can substitute a stub.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// BusinessesRepository describes persistence operations for listings.
type BusinessesRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	GetBySlug(ctx context.Context, slug string, status string) (*entity.Business, error)
	List(ctx context.Context, filter dto.ListFilter) ([]entity.Business, error)
	Update(ctx context.Context, business *entity.Business) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGXBusinessesRepository implements BusinessesRepository using pgx.
type PGXBusinessesRepository struct {
	pool pgxPool
}

// NewPGXBusinessesRepository wires a pgx backed repository.
func NewPGXBusinessesRepository(pool *pgxpool.Pool) *PGXBusinessesRepository {
	return &PGXBusinessesRepository{pool: pool}
}

const businessColumns = `id, slug, name, description, email, phone, website, opening_time, closing_time, status, submitted_at, created_at, updated_at`

// Create inserts a new listing row.
func (r *PGXBusinessesRepository) Create(ctx context.Context, business *entity.Business) error {
	if business == nil {
		return fmt.Errorf("business payload is nil")
	}

	query := `
        INSERT INTO businesses (
            id, slug, name, description, email, phone, website,
            opening_time, closing_time, status, submitted_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at;
    `

	err := r.pool.QueryRow(ctx, query,
		business.ID,
		business.Slug,
		business.Name,
		business.Description,
		business.Email,
		stringOrNil(business.Phone),
		stringOrNil(business.Website),
		stringOrNil(business.OpeningTime),
		stringOrNil(business.ClosingTime),
		business.Status,
		business.SubmittedAt,
	).Scan(&business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}

	return nil
}

// GetByID retrieves a listing by identifier regardless of status.
func (r *PGXBusinessesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id)
	return scanBusiness(row)
}

// GetBySlug retrieves a listing by slug, optionally restricted to a status.
func (r *PGXBusinessesRepository) GetBySlug(ctx context.Context, slug string, status string) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE slug = $1`
	args := []any{slug}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	row := r.pool.QueryRow(ctx, query, args...)
	return scanBusiness(row)
}

// List retrieves listings matching the provided filter, newest first.
func (r *PGXBusinessesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Business, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString(`SELECT ` + businessColumns + ` FROM businesses`)

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", idx, idx+1))
		args = append(args, pattern, pattern)
		idx += 2
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	baseQuery.WriteString(" ORDER BY submitted_at DESC, name ASC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	return scanBusinesses(rows)
}

// Update rewrites the mutable listing fields. Edits are last-write-wins.
func (r *PGXBusinessesRepository) Update(ctx context.Context, business *entity.Business) error {
	if business == nil {
		return fmt.Errorf("business payload is nil")
	}

	query := `
        UPDATE businesses SET
            slug = $2,
            name = $3,
            description = $4,
            email = $5,
            phone = $6,
            website = $7,
            opening_time = $8,
            closing_time = $9,
            updated_at = NOW()
        WHERE id = $1
        RETURNING status, submitted_at, created_at, updated_at;
    `

	err := r.pool.QueryRow(ctx, query,
		business.ID,
		business.Slug,
		business.Name,
		business.Description,
		business.Email,
		stringOrNil(business.Phone),
		stringOrNil(business.Website),
		stringOrNil(business.OpeningTime),
		stringOrNil(business.ClosingTime),
	).Scan(&business.Status, &business.SubmittedAt, &business.CreatedAt, &business.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("update business: %w", err)
	}

	return nil
}

// UpdateStatus moves a listing through the review workflow.
func (r *PGXBusinessesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE businesses SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update business status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

// Delete removes a listing by id.
func (r *PGXBusinessesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var (
		b           entity.Business
		phone       sql.NullString
		website     sql.NullString
		openingTime sql.NullString
		closingTime sql.NullString
	)

	err := row.Scan(
		&b.ID,
		&b.Slug,
		&b.Name,
		&b.Description,
		&b.Email,
		&phone,
		&website,
		&openingTime,
		&closingTime,
		&b.Status,
		&b.SubmittedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}

	b.Phone = nullStringToPtr(phone)
	b.Website = nullStringToPtr(website)
	b.OpeningTime = nullStringToPtr(openingTime)
	b.ClosingTime = nullStringToPtr(closingTime)

	return &b, nil
}

func scanBusinesses(rows pgx.Rows) ([]entity.Business, error) {
	var businesses []entity.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return businesses, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if *value == "" {
		return nil
	}
	return *value
}

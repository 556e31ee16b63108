package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukbizhub/directory-api/internal/entity"
)

// ErrWaitlistEntryNotFound indicates no entry matches the lookup criteria.
var ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")

// WaitlistRepository describes persistence operations for the waitlist.
type WaitlistRepository interface {
	InsertIfAbsent(ctx context.Context, entry *entity.WaitlistEntry) (created bool, err error)
	GetByEmail(ctx context.Context, email string) (*entity.WaitlistEntry, error)
	List(ctx context.Context) ([]entity.WaitlistEntry, error)
}

// PGXWaitlistRepository implements WaitlistRepository using pgx.
type PGXWaitlistRepository struct {
	pool pgxPool
}

// NewPGXWaitlistRepository wires a pgx backed repository.
func NewPGXWaitlistRepository(pool *pgxpool.Pool) *PGXWaitlistRepository {
	return &PGXWaitlistRepository{pool: pool}
}

// insertIfAbsentSQL relies on the unique index on email so that concurrent
// duplicate joins cannot race into two rows. The no-op DO UPDATE lets the
// conflicting row be returned, and xmax = 0 distinguishes a fresh insert
// from an existing row. Name and phone are never overwritten on conflict:
// the first submission wins.
const insertIfAbsentSQL = `
        INSERT INTO waitlist_entries (id, email, name, phone)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
        RETURNING id, email, name, phone, created_at, xmax = 0;
    `

// InsertIfAbsent atomically creates an entry for the email or returns the
// existing one. The entry is updated in place with the stored row; created
// reports whether a new row was inserted.
func (r *PGXWaitlistRepository) InsertIfAbsent(ctx context.Context, entry *entity.WaitlistEntry) (bool, error) {
	if entry == nil {
		return false, fmt.Errorf("waitlist entry payload is nil")
	}

	var (
		name    sql.NullString
		phone   sql.NullString
		created bool
	)

	err := r.pool.QueryRow(ctx, insertIfAbsentSQL,
		entry.ID,
		entry.Email,
		stringOrNil(entry.Name),
		stringOrNil(entry.Phone),
	).Scan(&entry.ID, &entry.Email, &name, &phone, &entry.CreatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("insert waitlist entry: %w", err)
	}

	entry.Name = nullStringToPtr(name)
	entry.Phone = nullStringToPtr(phone)

	return created, nil
}

// GetByEmail fetches an entry by its normalized email.
func (r *PGXWaitlistRepository) GetByEmail(ctx context.Context, email string) (*entity.WaitlistEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, email, name, phone, created_at FROM waitlist_entries WHERE email = $1`, email)

	entry, err := scanWaitlistEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWaitlistEntryNotFound
		}
		return nil, fmt.Errorf("query waitlist entry by email: %w", err)
	}
	return entry, nil
}

// List returns all entries ordered by creation date (desc).
func (r *PGXWaitlistRepository) List(ctx context.Context) ([]entity.WaitlistEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, name, phone, created_at FROM waitlist_entries ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list waitlist entries: %w", err)
	}
	defer rows.Close()

	var entries []entity.WaitlistEntry
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate waitlist entries: %w", err)
	}
	return entries, nil
}

func scanWaitlistEntry(row pgx.Row) (*entity.WaitlistEntry, error) {
	var (
		entry entity.WaitlistEntry
		name  sql.NullString
		phone sql.NullString
	)
	if err := row.Scan(&entry.ID, &entry.Email, &name, &phone, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.Name = nullStringToPtr(name)
	entry.Phone = nullStringToPtr(phone)
	return &entry, nil
}

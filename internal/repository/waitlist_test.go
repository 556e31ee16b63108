package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ukbizhub/directory-api/internal/entity"
)

func TestPGXWaitlistRepository_InsertIfAbsentCreated(t *testing.T) {
	entryID := uuid.New()
	var gotQuery string
	repo := &PGXWaitlistRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			gotQuery = query
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*uuid.UUID) = entryID
				*dest[1].(*string) = "jane@example.co.uk"
				*dest[2].(*sql.NullString) = sql.NullString{String: "Jane", Valid: true}
				*dest[3].(*sql.NullString) = sql.NullString{}
				*dest[4].(*time.Time) = time.Now()
				*dest[5].(*bool) = true
				return nil
			}}
		},
	}}

	entry := &entity.WaitlistEntry{ID: entryID, Email: "jane@example.co.uk"}
	created, err := repo.InsertIfAbsent(context.Background(), entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if entry.Name == nil || *entry.Name != "Jane" {
		t.Fatalf("expected stored row applied to entry, got %+v", entry)
	}
	if entry.Phone != nil {
		t.Fatalf("expected nil phone, got %v", *entry.Phone)
	}
	if !strings.Contains(gotQuery, "ON CONFLICT (email)") {
		t.Fatalf("expected conflict clause in query: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "xmax = 0") {
		t.Fatalf("expected insert detection in query: %s", gotQuery)
	}
}

func TestPGXWaitlistRepository_InsertIfAbsentExisting(t *testing.T) {
	storedID := uuid.New()
	storedAt := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	repo := &PGXWaitlistRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*uuid.UUID) = storedID
				*dest[1].(*string) = "jane@example.co.uk"
				*dest[2].(*sql.NullString) = sql.NullString{String: "First Submitter", Valid: true}
				*dest[3].(*sql.NullString) = sql.NullString{String: "+447123456789", Valid: true}
				*dest[4].(*time.Time) = storedAt
				*dest[5].(*bool) = false
				return nil
			}}
		},
	}}

	entry := &entity.WaitlistEntry{ID: uuid.New(), Email: "jane@example.co.uk"}
	created, err := repo.InsertIfAbsent(context.Background(), entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for existing email")
	}
	if entry.ID != storedID {
		t.Fatalf("expected stored id %s, got %s", storedID, entry.ID)
	}
	if entry.Name == nil || *entry.Name != "First Submitter" {
		t.Fatalf("expected first submission's name kept, got %+v", entry.Name)
	}
	if !entry.CreatedAt.Equal(storedAt) {
		t.Fatalf("expected stored creation time, got %v", entry.CreatedAt)
	}
}

func TestPGXWaitlistRepository_InsertIfAbsentValidation(t *testing.T) {
	repo := &PGXWaitlistRepository{}
	if _, err := repo.InsertIfAbsent(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil entry")
	}
}

func TestPGXWaitlistRepository_GetByEmailNotFound(t *testing.T) {
	repo := &PGXWaitlistRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}}

	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrWaitlistEntryNotFound) {
		t.Fatalf("expected ErrWaitlistEntryNotFound, got %v", err)
	}
}

func TestPGXWaitlistRepository_List(t *testing.T) {
	repo := &PGXWaitlistRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: []func(dest ...any) error{
				func(dest ...any) error {
					*dest[0].(*uuid.UUID) = uuid.New()
					*dest[1].(*string) = "jane@example.co.uk"
					*dest[2].(*sql.NullString) = sql.NullString{}
					*dest[3].(*sql.NullString) = sql.NullString{}
					*dest[4].(*time.Time) = time.Now()
					return nil
				},
			}}, nil
		},
	}}

	entries, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Email != "jane@example.co.uk" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

package cache

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var cacheEntryColumns = []string{"cache_key", "title", "description", "expires_at", "created_at", "updated_at"}

func newMockedPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	store, err := NewPostgresStore(gdb, time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, mock
}

func TestPostgresStoreGetHit(t *testing.T) {
	t.Parallel()

	store, mock := newMockedPostgresStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "translation_cache_entries" WHERE cache_key = $1`)).
		WillReturnRows(sqlmock.NewRows(cacheEntryColumns).
			AddRow("1:English", "Hello", "World", now.Add(time.Hour), now, now))

	got, ok := store.Get(context.Background(), "1:English")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.Title != "Hello" || got.Description != "World" {
		t.Fatalf("unexpected value: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetMissing(t *testing.T) {
	t.Parallel()

	store, mock := newMockedPostgresStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "translation_cache_entries" WHERE cache_key = $1`)).
		WillReturnRows(sqlmock.NewRows(cacheEntryColumns))

	if _, ok := store.Get(context.Background(), "absent"); ok {
		t.Fatalf("expected miss")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetEvictsExpiredRow(t *testing.T) {
	t.Parallel()

	store, mock := newMockedPostgresStore(t)
	past := time.Now().UTC().Add(-time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "translation_cache_entries" WHERE cache_key = $1`)).
		WillReturnRows(sqlmock.NewRows(cacheEntryColumns).
			AddRow("1:English", "Hello", "World", past, past, past))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "translation_cache_entries" WHERE cache_key = $1 AND expires_at <= $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, ok := store.Get(context.Background(), "1:English"); ok {
		t.Fatalf("expired row must be a miss")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStoreGetTreatsErrorsAsMiss(t *testing.T) {
	t.Parallel()

	store, mock := newMockedPostgresStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "translation_cache_entries"`)).
		WillReturnError(errors.New("connection reset"))

	if _, ok := store.Get(context.Background(), "1:English"); ok {
		t.Fatalf("expected miss on query failure")
	}
}

func TestPostgresStorePutUpserts(t *testing.T) {
	t.Parallel()

	store, mock := newMockedPostgresStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "translation_cache_entries"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("cache_key") DO UPDATE SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store.Put(context.Background(), "1:English", Value{Title: "Hello", Description: "World"})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewPostgresStoreRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewPostgresStore(nil, time.Hour, zerolog.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

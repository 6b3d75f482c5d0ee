package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"horse.fit/lingonews/internal/db"
	"horse.fit/lingonews/internal/globaltime"
)

// PostgresStore keeps translations in translation_cache_entries so they survive restarts.
// Store failures are logged and reported as misses.
type PostgresStore struct {
	gdb    *gorm.DB
	ttl    time.Duration
	logger zerolog.Logger
}

func NewPostgresStore(gdb *gorm.DB, ttl time.Duration, logger zerolog.Logger) (*PostgresStore, error) {
	if gdb == nil {
		return nil, ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresStore{
		gdb:    gdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "translation_cache").Logger(),
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Value, bool) {
	var row db.TranslationCacheEntry
	err := s.gdb.WithContext(ctx).
		Where("cache_key = ?", key).
		Take(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Err(err).Str("cache_key", key).Msg("translation cache lookup failed")
		}
		return Value{}, false
	}

	now := globaltime.UTC()
	entry := Entry{Key: row.CacheKey, Value: Value{Title: row.Title, Description: row.Description}, ExpiresAt: row.ExpiresAt}
	if entry.Expired(now) {
		if err := s.gdb.WithContext(ctx).
			Where("cache_key = ? AND expires_at <= ?", key, now).
			Delete(&db.TranslationCacheEntry{}).Error; err != nil {
			s.logger.Warn().Err(err).Str("cache_key", key).Msg("evict expired translation failed")
		}
		return Value{}, false
	}
	return entry.Value, true
}

func (s *PostgresStore) Put(ctx context.Context, key string, value Value) {
	now := globaltime.UTC()
	row := db.TranslationCacheEntry{
		CacheKey:    key,
		Title:       value.Title,
		Description: value.Description,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("store translation failed")
	}
}

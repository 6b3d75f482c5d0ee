package db

import "time"

// TranslationCacheEntry maps translation_cache_entries.
type TranslationCacheEntry struct {
	CacheKey    string    `gorm:"column:cache_key;type:text;primaryKey"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;type:timestamptz;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (TranslationCacheEntry) TableName() string { return "translation_cache_entries" }

func autoMigrateModels() []any {
	return []any{
		&TranslationCacheEntry{},
	}
}

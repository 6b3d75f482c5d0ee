// Package cache stores finished translations keyed by article identity and target language.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

const DefaultTTL = time.Hour

var ErrNotConfigured = errors.New("translation cache is not configured")

// Value is one cached translation.
type Value struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Entry is a cached value with its expiry.
type Entry struct {
	Key       string
	Value     Value
	ExpiresAt time.Time
}

func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is the narrow get/put contract shared by the in-memory and database caches.
type Store interface {
	Get(ctx context.Context, key string) (Value, bool)
	Put(ctx context.Context, key string, value Value)
}

// Key derives the cache slot for an article. Articles with a stable id use "id:targetLang";
// others use a SHA-256 fingerprint of title, description and target language.
func Key(id, title, description, targetLang string) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed + ":" + targetLang
	}
	return Fingerprint(title + "|" + description + "|" + targetLang)
}

// Fingerprint returns the hex SHA-256 of content.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

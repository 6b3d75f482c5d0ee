// Package translation turns article batches and article bodies into a target language with a
// text-generation provider, degrading to the original content whenever the provider fails.
package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"horse.fit/lingonews/internal/cache"
	"horse.fit/lingonews/internal/langdetect"
	"horse.fit/lingonews/internal/provider"
)

const defaultRetryDelay = 500 * time.Millisecond

// Options wires a Translator. Generator is required; Cache defaults to a MemoryStore.
type Options struct {
	Generator     provider.Generator
	Cache         cache.Store
	Logger        zerolog.Logger
	RetryAttempts uint
	RetryDelay    time.Duration
	// Detect guesses the ISO 639-1 code of text. Defaults to lingua detection.
	Detect func(text string) string
}

type Translator struct {
	generator     provider.Generator
	cache         cache.Store
	logger        zerolog.Logger
	retryAttempts uint
	retryDelay    time.Duration
	detect        func(text string) string
	inflight      singleflight.Group

	callsMu sync.Mutex
	calls   map[string]*sharedCall
	callSeq uint64
}

func NewTranslator(opts Options) (*Translator, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("translation generator is required")
	}

	store := opts.Cache
	if store == nil {
		store = cache.NewMemoryStore(cache.DefaultTTL)
	}
	attempts := opts.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	detect := opts.Detect
	if detect == nil {
		detect = langdetect.DetectISO6391
	}

	return &Translator{
		generator:     opts.Generator,
		cache:         store,
		logger:        opts.Logger,
		retryAttempts: attempts,
		retryDelay:    delay,
		detect:        detect,
		calls:         make(map[string]*sharedCall),
	}, nil
}

func (t *Translator) ProviderName() string {
	return t.generator.Name()
}

func (t *Translator) ModelName() string {
	return t.generator.ModelName()
}

// generate calls the provider, retrying transient failures only.
func (t *Translator) generate(ctx context.Context, prompt string) (string, error) {
	var output string
	err := retry.Do(
		func() error {
			text, err := t.generator.Generate(ctx, prompt)
			if err != nil {
				if !provider.Transient(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			output = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(t.retryAttempts),
		retry.Delay(t.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			t.logger.Debug().
				Err(err).
				Uint("attempt", n+1).
				Str("provider", t.generator.Name()).
				Msg("retrying provider call")
		}),
	)
	if err != nil {
		return "", err
	}
	return output, nil
}

func resolveTargetLang(raw string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return DefaultTargetLang
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package translation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lingonews/internal/cache"
)

type stubGenerator struct {
	mu      sync.Mutex
	prompts []string
	respond func(call int, prompt string) (string, error)
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	call := len(g.prompts)
	g.mu.Unlock()

	if g.respond == nil {
		return "", nil
	}
	return g.respond(call, prompt)
}

func (g *stubGenerator) Name() string {
	return "stub"
}

func (g *stubGenerator) ModelName() string {
	return "stub-model"
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func (g *stubGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.prompts) == 0 {
		return ""
	}
	return g.prompts[len(g.prompts)-1]
}

func respondWith(text string) func(int, string) (string, error) {
	return func(int, string) (string, error) {
		return text, nil
	}
}

func noDetect(string) string {
	return ""
}

// blockingGenerator holds every call until release is closed or the call context ends.
type blockingGenerator struct {
	output  string
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	aborted chan struct{}
}

func newBlockingGenerator(output string) *blockingGenerator {
	return &blockingGenerator{
		output:  output,
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		aborted: make(chan struct{}, 8),
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, _ string) (string, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	select {
	case <-ctx.Done():
		g.aborted <- struct{}{}
		return "", ctx.Err()
	case <-g.release:
		return g.output, nil
	}
}

func (g *blockingGenerator) Name() string {
	return "blocking"
}

func (g *blockingGenerator) ModelName() string {
	return "blocking-model"
}

// waitForWaiters blocks until want callers share the in-flight paragraph call for key.
func waitForWaiters(t *testing.T, translator *Translator, key string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		translator.callsMu.Lock()
		got := 0
		if call, ok := translator.calls[key]; ok {
			got = call.waiters
		}
		translator.callsMu.Unlock()

		if got == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected %d waiters on %q, got %d", want, key, got)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestTranslator(t *testing.T, generator *stubGenerator, opts ...func(*Options)) *Translator {
	t.Helper()

	options := Options{
		Generator:  generator,
		Cache:      cache.NewMemoryStore(time.Hour),
		Logger:     zerolog.Nop(),
		RetryDelay: time.Millisecond,
		Detect:     noDetect,
	}
	for _, opt := range opts {
		opt(&options)
	}

	translator, err := NewTranslator(options)
	if err != nil {
		t.Fatalf("new translator: %v", err)
	}
	return translator
}

package translation

import (
	"context"
	"strings"
	"sync"
)

// Sequencer hands out increasing tokens per consumer so a response is only applied when it
// belongs to the newest request. Beginning a request cancels the consumer's previous one.
type Sequencer struct {
	mu        sync.Mutex
	last      uint64
	consumers map[string]sequencedRequest
}

type sequencedRequest struct {
	token  uint64
	cancel context.CancelFunc
}

func NewSequencer() *Sequencer {
	return &Sequencer{consumers: make(map[string]sequencedRequest)}
}

// Begin registers a new request for consumer and returns its context and token.
func (s *Sequencer) Begin(ctx context.Context, consumer string) (context.Context, uint64) {
	requestCtx, cancel := context.WithCancel(ctx)
	consumer = strings.TrimSpace(consumer)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	token := s.last
	if previous, ok := s.consumers[consumer]; ok {
		previous.cancel()
	}
	s.consumers[consumer] = sequencedRequest{token: token, cancel: cancel}
	return requestCtx, token
}

// IsLatest reports whether token is still the newest request of consumer.
func (s *Sequencer) IsLatest(consumer string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.consumers[strings.TrimSpace(consumer)]
	return ok && current.token == token
}

// Done releases the request. Superseded tokens were already cancelled by Begin.
func (s *Sequencer) Done(consumer string, token uint64) {
	consumer = strings.TrimSpace(consumer)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.consumers[consumer]
	if !ok || current.token != token {
		return
	}
	current.cancel()
	delete(s.consumers, consumer)
}

// Pending counts consumers with an unfinished request.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consumers)
}

package translation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"horse.fit/lingonews/internal/cache"
	"horse.fit/lingonews/internal/language"
)

// ErrParagraphMismatch reports a model output whose paragraph count differs from the input.
var ErrParagraphMismatch = errors.New("translated paragraph count does not match source")

// paragraphBreak matches a run of newlines, swallowing blank lines made of spaces or tabs.
var paragraphBreak = regexp.MustCompile(`[ \t\r]*\n(?:[ \t\r]*\n)*`)

// TranslateParagraphs translates a full article body into targetLang. The output keeps the
// paragraph count, order and separators of text. Identical concurrent calls share one
// provider request, which is only abandoned once every one of them has gone away.
func (t *Translator) TranslateParagraphs(ctx context.Context, text, targetLang string) (string, error) {
	source := strings.TrimSpace(text)
	if source == "" {
		return "", nil
	}
	targetLang = resolveTargetLang(targetLang)
	if IsOriginal(targetLang) {
		return text, nil
	}

	if detected := t.detect(source); detected != "" && language.Same(detected, targetLang) {
		return text, nil
	}

	key := paragraphKey(source, targetLang)
	call := t.joinCall(ctx, key)
	defer t.leaveCall(key, call)

	resultCh := t.inflight.DoChan(fmt.Sprintf("%s#%d", key, call.id), func() (any, error) {
		return t.translateDocument(call.ctx, source, targetLang)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-resultCh:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	}
}

func paragraphKey(source, targetLang string) string {
	return targetLang + "\x00" + cache.Fingerprint(source)
}

// sharedCall is one provider request shared by every caller waiting on the same document.
// Its context is detached from the callers and cancelled once the last waiter leaves.
type sharedCall struct {
	id      uint64
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (t *Translator) joinCall(ctx context.Context, key string) *sharedCall {
	t.callsMu.Lock()
	defer t.callsMu.Unlock()

	call, ok := t.calls[key]
	if !ok {
		t.callSeq++
		callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		call = &sharedCall{id: t.callSeq, ctx: callCtx, cancel: cancel}
		t.calls[key] = call
	}
	call.waiters++
	return call
}

func (t *Translator) leaveCall(key string, call *sharedCall) {
	t.callsMu.Lock()
	defer t.callsMu.Unlock()

	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if t.calls[key] == call {
		delete(t.calls, key)
	}
}

func (t *Translator) translateDocument(ctx context.Context, source, targetLang string) (string, error) {
	output, err := t.generate(ctx, buildParagraphPrompt(source, language.DisplayName(targetLang)))
	if err != nil {
		if !canceled(err) {
			t.logger.Warn().
				Err(err).
				Str("provider", t.generator.Name()).
				Str("target_lang", targetLang).
				Int("chars", len(source)).
				Msg("paragraph translation failed")
		}
		return "", fmt.Errorf("translate paragraphs: %w", err)
	}

	translated, err := alignParagraphs(source, strings.TrimSpace(output))
	if err != nil {
		t.logger.Warn().
			Err(err).
			Str("provider", t.generator.Name()).
			Str("target_lang", targetLang).
			Msg("paragraph structure changed")
		return "", err
	}
	return translated, nil
}

// alignParagraphs re-joins the translated paragraphs with the separators of the source.
func alignParagraphs(source, translated string) (string, error) {
	sourceParts := paragraphBreak.Split(source, -1)
	separators := paragraphBreak.FindAllString(source, -1)
	translatedParts := paragraphBreak.Split(translated, -1)

	if translated == "" || len(translatedParts) != len(sourceParts) {
		return "", fmt.Errorf("%w: got %d, want %d", ErrParagraphMismatch, countParagraphs(translated), len(sourceParts))
	}

	var b strings.Builder
	for idx, part := range translatedParts {
		b.WriteString(part)
		if idx < len(separators) {
			b.WriteString(separators[idx])
		}
	}
	return b.String(), nil
}

func countParagraphs(text string) int {
	if text == "" {
		return 0
	}
	return len(paragraphBreak.Split(text, -1))
}

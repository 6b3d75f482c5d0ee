package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"horse.fit/lingonews/internal/cache"
	"horse.fit/lingonews/internal/language"
	"horse.fit/lingonews/internal/provider"
)

const errMissingTranslation = "translation missing from model response"

type pendingArticle struct {
	position int
	key      string
}

// TranslateBatch renders every article in targetLang with at most one provider call. The result
// has the same length and order as articles; an article is never dropped. Provider and parse
// failures fall back to the original content tagged with an error. A rate limit returns the
// original content of the whole batch without error tags. The "original" target returns every
// article untouched.
func (t *Translator) TranslateBatch(ctx context.Context, articles []ArticleInput, targetLang string) []ArticleOutput {
	outputs := make([]ArticleOutput, len(articles))
	if len(articles) == 0 {
		return outputs
	}
	targetLang = resolveTargetLang(targetLang)
	if IsOriginal(targetLang) {
		for idx, article := range articles {
			outputs[idx] = originalOutput(article, "")
		}
		return outputs
	}

	pending := make([]pendingArticle, 0, len(articles))
	passThrough, cached := 0, 0
	for idx, article := range articles {
		if t.alreadyInTarget(article, targetLang) {
			outputs[idx] = originalOutput(article, "")
			passThrough++
			continue
		}

		key := cache.Key(article.ID, article.Title, article.Description, targetLang)
		if value, ok := t.cache.Get(ctx, key); ok {
			outputs[idx] = ArticleOutput{Title: value.Title, Description: value.Description}
			cached++
			continue
		}
		pending = append(pending, pendingArticle{position: idx, key: key})
	}

	logger := t.logger.With().
		Str("provider", t.generator.Name()).
		Str("target_lang", targetLang).
		Int("batch_size", len(articles)).
		Int("pending", len(pending)).
		Logger()
	logger.Debug().Int("pass_through", passThrough).Int("cached", cached).Msg("partitioned translation batch")

	if len(pending) == 0 {
		return outputs
	}

	subset := make([]ArticleInput, 0, len(pending))
	for _, item := range pending {
		subset = append(subset, articles[item.position])
	}
	fallback := func(errMsg string) []ArticleOutput {
		for _, item := range pending {
			outputs[item.position] = originalOutput(articles[item.position], errMsg)
		}
		return outputs
	}

	prompt, err := buildBatchPrompt(subset, language.DisplayName(targetLang))
	if err != nil {
		logger.Error().Err(err).Msg("build translation prompt failed")
		return fallback(err.Error())
	}

	response, err := t.generate(ctx, prompt)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrRateLimited):
			logger.Warn().Err(err).Msg("provider rate limited, returning original content")
			for idx, article := range articles {
				outputs[idx] = originalOutput(article, "")
			}
			return outputs
		case canceled(err):
			logger.Debug().Err(err).Msg("translation batch canceled")
		default:
			logger.Warn().Err(err).Msg("provider call failed, returning original content")
		}
		return fallback(fmt.Sprintf("translation failed: %v", err))
	}

	results, err := parseBatchResponse(response)
	if err != nil {
		logger.Warn().Err(err).Msg("could not parse model response")
		return fallback(fmt.Sprintf("parse model response: %v", err))
	}

	matched := matchResults(subset, results)
	translated := 0
	for idx, item := range pending {
		article := articles[item.position]
		result := matched[idx]
		if result == nil || strings.TrimSpace(result.Title) == "" {
			outputs[item.position] = originalOutput(article, errMissingTranslation)
			continue
		}

		value := cache.Value{Title: result.Title, Description: result.Description}
		t.cache.Put(ctx, item.key, value)
		outputs[item.position] = ArticleOutput{Title: value.Title, Description: value.Description}
		translated++
	}

	if translated < len(pending) {
		logger.Warn().Int("translated", translated).Msg("model response did not cover every article")
	}
	return outputs
}

// alreadyInTarget reports whether article needs no translation. A blank source language is
// detected from the content; content whose language stays unknown is passed through.
func (t *Translator) alreadyInTarget(article ArticleInput, targetLang string) bool {
	source := strings.TrimSpace(article.Language)
	if source == "" {
		source = t.detect(strings.TrimSpace(article.Title + "\n" + article.Description))
		if source == "" {
			return true
		}
	}
	return language.Same(source, targetLang)
}

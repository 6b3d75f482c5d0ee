package translation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoJSONArray = errors.New("model response contains no JSON array")

type batchResult struct {
	ArticleID   string
	Title       string
	Description string
}

type rawBatchResult struct {
	ArticleID   json.RawMessage `json:"article_id"`
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

// parseBatchResponse decodes the slice between the first '[' and the last ']' of the model output.
func parseBatchResponse(output string) ([]batchResult, error) {
	start := strings.Index(output, "[")
	end := strings.LastIndex(output, "]")
	if start < 0 || end <= start {
		return nil, errNoJSONArray
	}

	var raw []rawBatchResult
	if err := json.Unmarshal([]byte(output[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode model JSON array: %w", err)
	}

	results := make([]batchResult, 0, len(raw))
	for _, item := range raw {
		id := identifierString(item.ArticleID)
		if id == "" {
			id = identifierString(item.ID)
		}
		results = append(results, batchResult{
			ArticleID:   id,
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
		})
	}
	return results, nil
}

// matchResults maps parsed results onto the request subset. Identifier matches win; results or
// requests without an identifier fall back to their position. Unmatched slots stay nil.
func matchResults(pending []ArticleInput, results []batchResult) []*batchResult {
	matched := make([]*batchResult, len(pending))
	byID := make(map[string]int, len(pending))
	for idx, article := range pending {
		if id := strings.TrimSpace(article.ID); id != "" {
			byID[id] = idx
		}
	}

	positional := make([]int, 0, len(results))
	for idx := range results {
		result := &results[idx]
		if result.ArticleID != "" {
			if target, ok := byID[result.ArticleID]; ok {
				if matched[target] == nil {
					matched[target] = result
				}
				continue
			}
		}
		positional = append(positional, idx)
	}

	for _, idx := range positional {
		if idx >= len(pending) || matched[idx] != nil {
			continue
		}
		result := &results[idx]
		// An identified result may only land on a request that carries no identifier.
		if result.ArticleID != "" && strings.TrimSpace(pending[idx].ID) != "" {
			continue
		}
		matched[idx] = result
	}
	return matched
}

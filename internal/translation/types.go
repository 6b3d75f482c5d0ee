package translation

import (
	"encoding/json"
	"strings"
)

const DefaultTargetLang = "English"

// ArticleInput is one article record as delivered by the news listing.
type ArticleInput struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language"`
}

// UnmarshalJSON accepts the upstream "article_id" field as an alias of "id".
func (a *ArticleInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		ArticleID   json.RawMessage `json:"article_id"`
		Title       string          `json:"title"`
		Description *string         `json:"description"`
		Language    string          `json:"language"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.ID = identifierString(raw.ID)
	if a.ID == "" {
		a.ID = identifierString(raw.ArticleID)
	}
	a.Title = raw.Title
	a.Description = ""
	if raw.Description != nil {
		a.Description = *raw.Description
	}
	a.Language = raw.Language
	return nil
}

// ArticleOutput is the translated (or original) rendering of one ArticleInput.
type ArticleOutput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

func originalOutput(article ArticleInput, errMsg string) ArticleOutput {
	return ArticleOutput{
		Title:       article.Title,
		Description: article.Description,
		Error:       errMsg,
	}
}

// identifierString reads a JSON string or number id. null and other shapes yield "".
func identifierString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String()
	}
	return ""
}

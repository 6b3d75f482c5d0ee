package translation

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseBatchResponseSlicesFencedArray(t *testing.T) {
	t.Parallel()

	output := "```json\n[{\"article_id\": 12, \"title\": \" Hi \", \"description\": \"There\"}, {\"id\": \"x\", \"title\": \"Yo\"}]\n```"
	results, err := parseBatchResponse(output)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
	if results[0].ArticleID != "12" || results[0].Title != "Hi" || results[0].Description != "There" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].ArticleID != "x" {
		t.Fatalf("expected id alias, got %+v", results[1])
	}
}

func TestParseBatchResponseFailures(t *testing.T) {
	t.Parallel()

	if _, err := parseBatchResponse("no json here"); !errors.Is(err, errNoJSONArray) {
		t.Fatalf("expected errNoJSONArray, got %v", err)
	}
	if _, err := parseBatchResponse("] backwards ["); !errors.Is(err, errNoJSONArray) {
		t.Fatalf("expected errNoJSONArray for reversed brackets, got %v", err)
	}
	if _, err := parseBatchResponse(`[{"title": "unterminated}]`); err == nil {
		t.Fatalf("expected invalid JSON to fail")
	}
}

func TestMatchResultsPrefersIdentifiers(t *testing.T) {
	t.Parallel()

	pending := []ArticleInput{{ID: "a"}, {}, {ID: "c"}}
	results := []batchResult{
		{ArticleID: "c", Title: "C"},
		{Title: "B"},
		{ArticleID: "a", Title: "A"},
	}
	matched := matchResults(pending, results)

	if matched[0] == nil || matched[0].Title != "A" {
		t.Fatalf("slot 0: %+v", matched[0])
	}
	if matched[1] == nil || matched[1].Title != "B" {
		t.Fatalf("slot 1: %+v", matched[1])
	}
	if matched[2] == nil || matched[2].Title != "C" {
		t.Fatalf("slot 2: %+v", matched[2])
	}
}

func TestArticleInputAcceptsArticleIDAlias(t *testing.T) {
	t.Parallel()

	var input ArticleInput
	if err := json.Unmarshal([]byte(`{"article_id":"abc","title":"Hola","description":null,"language":"es"}`), &input); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if input.ID != "abc" || input.Title != "Hola" || input.Description != "" || input.Language != "es" {
		t.Fatalf("unexpected input: %+v", input)
	}

	if err := json.Unmarshal([]byte(`{"id":7,"article_id":"ignored","title":"x","language":"de"}`), &input); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if input.ID != "7" {
		t.Fatalf("expected id to win over article_id, got %q", input.ID)
	}
}

func TestTargetLanguageOptions(t *testing.T) {
	t.Parallel()

	options := ViewerLanguageOptions()
	if options[0].Code != "original" {
		t.Fatalf("expected original option first, got %+v", options[0])
	}
	for i := 2; i < len(options); i++ {
		if options[i-1].Label > options[i].Label {
			t.Fatalf("options not sorted by label: %q > %q", options[i-1].Label, options[i].Label)
		}
	}
	for _, option := range options {
		if option.Code == "en" && option.Native != "" {
			t.Fatalf("english must not repeat its native name")
		}
	}
}

// Package payloadschema validates inbound translation request bodies against embedded JSON Schemas.
package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/lingonews/internal/translation"
)

const (
	translateRequestSchemaName = "translate_request.schema.json"
	paragraphRequestSchemaName = "paragraph_request.schema.json"
)

//go:embed translate_request.schema.json
var translateRequestSchemaJSON string

//go:embed paragraph_request.schema.json
var paragraphRequestSchemaJSON string

// TranslateRequest is the body of the batch translation endpoint.
type TranslateRequest struct {
	Articles   []translation.ArticleInput `json:"articles"`
	TargetLang string                     `json:"targetLang"`
}

// ParagraphRequest is the body of the paragraph translation endpoint.
type ParagraphRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
	Consumer   string `json:"consumer"`
}

// ValidationError lists schema violations keyed by JSON pointer into the request body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

type compiledSchema struct {
	once   sync.Once
	name   string
	source string
	schema *jsonschema.Schema
	err    error
}

var (
	translateRequestSchema = &compiledSchema{name: translateRequestSchemaName, source: translateRequestSchemaJSON}
	paragraphRequestSchema = &compiledSchema{name: paragraphRequestSchemaName, source: paragraphRequestSchemaJSON}
)

func ValidateTranslateRequest(payload []byte) (*TranslateRequest, error) {
	var req TranslateRequest
	if err := validateInto(translateRequestSchema, payload, &req); err != nil {
		return nil, err
	}
	req.TargetLang = strings.TrimSpace(req.TargetLang)
	if req.Articles == nil {
		req.Articles = []translation.ArticleInput{}
	}
	return &req, nil
}

func ValidateParagraphRequest(payload []byte) (*ParagraphRequest, error) {
	var req ParagraphRequest
	if err := validateInto(paragraphRequestSchema, payload, &req); err != nil {
		return nil, err
	}
	req.TargetLang = strings.TrimSpace(req.TargetLang)
	req.Consumer = strings.TrimSpace(req.Consumer)
	return &req, nil
}

func validateInto(compiled *compiledSchema, payload []byte, out any) error {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return &ValidationError{Fields: map[string]string{"body": err.Error()}}
	}

	schema, err := compiled.load()
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationError{Fields: collectFieldErrors(validationErr)}
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if err := json.Unmarshal(bytes.TrimSpace(payload), out); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

func (c *compiledSchema) load() (*jsonschema.Schema, error) {
	c.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource(c.name, strings.NewReader(c.source)); err != nil {
			c.err = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile(c.name)
		if err != nil {
			c.err = fmt.Errorf("compile schema: %w", err)
			return
		}
		c.schema = schema
	})

	if c.err != nil {
		return nil, c.err
	}
	if c.schema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return c.schema, nil
}

// collectFieldErrors flattens the leaf causes of a validation error.
func collectFieldErrors(root *jsonschema.ValidationError) map[string]string {
	fields := map[string]string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) == 0 {
			location := ve.InstanceLocation
			if location == "" {
				location = "body"
			}
			if _, exists := fields[location]; !exists {
				fields[location] = ve.Message
			}
			return
		}
		for _, cause := range ve.Causes {
			walk(cause)
		}
	}
	walk(root)
	return fields
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"
)

const (
	GeminiName           = "gemini"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiProvider calls the generateContent endpoint of the Generative Language API.
type GeminiProvider struct {
	httpClient *resty.Client
	model      string
}

func NewGeminiProvider(apiKey, model, baseURL string, timeout time.Duration) *GeminiProvider {
	trimmedModel := strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if trimmedModel == "" {
		trimmedModel = DefaultGeminiModel
	}
	trimmedBase := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedBase == "" {
		trimmedBase = DefaultGeminiBaseURL
	}

	client := resty.New()
	client.SetBaseURL(trimmedBase)
	client.SetHeader("Content-Type", "application/json")
	if key := strings.TrimSpace(apiKey); key != "" {
		client.SetHeader("x-goog-api-key", key)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &GeminiProvider{
		httpClient: client,
		model:      trimmedModel,
	}
}

func (p *GeminiProvider) Name() string {
	return GeminiName
}

func (p *GeminiProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *GeminiProvider) Close() error {
	return p.httpClient.Close()
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"topK"`
}

type generateContentRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("gemini provider is nil")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	response, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(generateContentRequest{
			Contents: []geminiContent{{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			}},
			GenerationConfig: geminiGenerationConfig{Temperature: 0, TopK: 1},
		}).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(p.model)))
	if err != nil {
		return "", fmt.Errorf("send gemini request: %w", err)
	}

	body := response.Bytes()
	if response.IsError() {
		apiErr := &APIError{Provider: GeminiName, StatusCode: response.StatusCode()}
		var payload geminiErrorResponse
		if unmarshalErr := json.Unmarshal(body, &payload); unmarshalErr == nil && payload.Error.Message != "" {
			apiErr.Message = payload.Error.Message
			apiErr.Code = payload.Error.Status
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return "", apiErr
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if reason := strings.TrimSpace(parsed.PromptFeedback.BlockReason); reason != "" {
		return "", fmt.Errorf("gemini blocked prompt: %s", reason)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"
)

const (
	OpenAIName           = "openai"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
)

// OpenAIProvider calls a chat-completions endpoint.
type OpenAIProvider struct {
	httpClient *resty.Client
	model      string
}

func NewOpenAIProvider(apiKey, model, baseURL string, timeout time.Duration) *OpenAIProvider {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultOpenAIModel
	}
	trimmedBase := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedBase == "" {
		trimmedBase = DefaultOpenAIBaseURL
	}

	client := resty.New()
	client.SetBaseURL(trimmedBase)
	client.SetHeader("Content-Type", "application/json")
	if key := strings.TrimSpace(apiKey); key != "" {
		client.SetHeader("Authorization", "Bearer "+key)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &OpenAIProvider{
		httpClient: client,
		model:      trimmedModel,
	}
}

func (p *OpenAIProvider) Name() string {
	return OpenAIName
}

func (p *OpenAIProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *OpenAIProvider) Close() error {
	return p.httpClient.Close()
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("openai provider is nil")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	response, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(chatCompletionRequest{
			Model:       p.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: 0,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("send openai request: %w", err)
	}

	body := response.Bytes()
	if response.IsError() {
		apiErr := &APIError{Provider: OpenAIName, StatusCode: response.StatusCode()}
		var payload openAIErrorResponse
		if unmarshalErr := json.Unmarshal(body, &payload); unmarshalErr == nil && payload.Error.Message != "" {
			apiErr.Message = payload.Error.Message
			apiErr.Code = openAIErrorCode(payload.Error.Code, payload.Error.Type)
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return "", apiErr
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// OpenAI reports codes as strings, but some compatible servers send numbers or only a type.
func openAIErrorCode(code any, errType string) string {
	switch v := code.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%d", int(v))
	}
	if errType == "rate_limit_exceeded" || errType == "tokens" || errType == "requests" {
		return "rate_limit_exceeded"
	}
	return ""
}

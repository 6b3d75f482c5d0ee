// Package reader fetches article pages and images for the translation UI.
package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
	"resty.dev/v3"

	"horse.fit/lingonews/internal/langdetect"
)

const (
	DefaultFetchTimeout  = 12 * time.Second
	DefaultBodyByteLimit = 2 * 1024 * 1024
	DefaultImageLimit    = 8 * 1024 * 1024
	DefaultContentType   = "image/jpeg"

	excerptChars     = 280
	defaultUserAgent = "lingonews-reader/1.0"
)

var (
	ErrInvalidURL  = errors.New("url must be an absolute http(s) URL")
	ErrUnreachable = errors.New("upstream resource not reachable")
)

// FetchOptions controls HTTP behavior of a Fetcher.
type FetchOptions struct {
	Timeout       time.Duration
	BodyByteLimit int64
	ImageLimit    int64
	UserAgent     string
}

// Article is the readable content of a page.
type Article struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Byline      string `json:"byline,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Language    string `json:"lang,omitempty"`
	TextContent string `json:"textContent"`
}

// Image is a proxied image body.
type Image struct {
	ContentType string
	Data        []byte
}

type Fetcher struct {
	client     *resty.Client
	bodyLimit  int64
	imageLimit int64
}

func NewFetcher(opts FetchOptions) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	bodyLimit := opts.BodyByteLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyByteLimit
	}
	imageLimit := opts.ImageLimit
	if imageLimit <= 0 {
		imageLimit = DefaultImageLimit
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)

	return &Fetcher{
		client:     client,
		bodyLimit:  bodyLimit,
		imageLimit: imageLimit,
	}
}

func (f *Fetcher) Close() error {
	if f == nil || f.client == nil {
		return nil
	}
	return f.client.Close()
}

// FetchArticle downloads pageURL and extracts its readable text with readability.
func (f *Fetcher) FetchArticle(ctx context.Context, pageURL string) (*Article, error) {
	parsed, err := ValidateURL(pageURL)
	if err != nil {
		return nil, err
	}

	response, err := f.client.R().
		SetContext(ctx).
		SetResponseBodyLimit(f.bodyLimit).
		SetHeader("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.8").
		Get(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("%w: fetch status %d", ErrUnreachable, response.StatusCode())
	}

	body := response.Bytes()
	article := &Article{URL: parsed.String()}

	contentType := strings.ToLower(strings.TrimSpace(response.Header().Get("Content-Type")))
	if strings.HasPrefix(contentType, "text/plain") {
		article.TextContent = CleanText(string(body))
	} else {
		doc, err := readability.FromReader(bytes.NewReader(body), parsed)
		if err != nil {
			return nil, fmt.Errorf("readability parse: %w", err)
		}

		var rendered bytes.Buffer
		if err := doc.RenderText(&rendered); err != nil {
			return nil, fmt.Errorf("render readability text: %w", err)
		}

		article.Title = strings.TrimSpace(doc.Title())
		article.Byline = strings.TrimSpace(doc.Byline())
		article.SiteName = strings.TrimSpace(doc.SiteName())
		article.Excerpt = CleanText(doc.Excerpt())
		article.TextContent = CleanText(rendered.String())
		if article.TextContent == "" {
			article.TextContent = article.Excerpt
		}
	}

	if article.TextContent == "" {
		return nil, fmt.Errorf("reader extracted empty content")
	}
	if article.Excerpt == "" {
		article.Excerpt, _ = TruncateText(article.TextContent, excerptChars)
	}
	article.Language = langdetect.DetectISO6391(article.TextContent)
	return article, nil
}

// FetchImage downloads imageURL. Missing content types default to image/jpeg.
func (f *Fetcher) FetchImage(ctx context.Context, imageURL string) (*Image, error) {
	parsed, err := ValidateURL(imageURL)
	if err != nil {
		return nil, err
	}

	response, err := f.client.R().
		SetContext(ctx).
		SetResponseBodyLimit(f.imageLimit).
		SetHeader("Accept", "image/*,*/*;q=0.8").
		Get(parsed.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("%w: fetch status %d", ErrUnreachable, response.StatusCode())
	}

	contentType := strings.TrimSpace(response.Header().Get("Content-Type"))
	if contentType == "" {
		contentType = DefaultContentType
	}
	return &Image{
		ContentType: contentType,
		Data:        response.Bytes(),
	}, nil
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrInvalidURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if parsed.Host == "" {
		return nil, ErrInvalidURL
	}
	return parsed, nil
}

// CleanText normalizes line endings, collapses in-line whitespace and separates paragraphs
// with a blank line.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

// TruncateText clips text to maxChars runes and appends a single ellipsis rune when truncated.
func TruncateText(raw string, maxChars int) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if maxChars <= 0 {
		return trimmed, false
	}

	runes := []rune(trimmed)
	if len(runes) <= maxChars {
		return trimmed, false
	}
	if maxChars == 1 {
		return "…", true
	}

	clipped := strings.TrimSpace(string(runes[:maxChars-1]))
	if clipped == "" {
		return "…", true
	}

	return clipped + "…", true
}

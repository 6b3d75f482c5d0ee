package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/lingonews/internal/globaltime"
	"horse.fit/lingonews/internal/reader"
	payloadschema "horse.fit/lingonews/internal/schema"
	"horse.fit/lingonews/internal/translation"
)

const (
	translationUnavailable = "translation unavailable"
	maxArticleChars        = 200_000
)

type translateResponse struct {
	Translated []translation.ArticleOutput `json:"translated"`
}

type paragraphResponse struct {
	Translated string `json:"translated"`
	Error      string `json:"error,omitempty"`
	Superseded bool   `json:"superseded,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service":  "lingonews",
		"provider": s.opts.ProviderName,
		"model":    s.opts.ModelName,
		"time":     globaltime.UTC(),
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"default": translation.DefaultTargetLang,
		"targets": translation.TargetLanguageOptions(),
		"viewer":  translation.ViewerLanguageOptions(),
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Could not read request body", nil)
	}

	req, err := payloadschema.ValidateTranslateRequest(body)
	if err != nil {
		return s.requestError(c, err)
	}

	translated := s.translator.TranslateBatch(c.Request().Context(), req.Articles, req.TargetLang)
	return c.JSON(http.StatusOK, translateResponse{Translated: translated})
}

func (s *Server) handleTranslateParagraphs(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Could not read request body", nil)
	}

	req, err := payloadschema.ValidateParagraphRequest(body)
	if err != nil {
		return s.requestError(c, err)
	}

	ctx := c.Request().Context()
	var token uint64
	if req.Consumer != "" {
		ctx, token = s.sequencer.Begin(ctx, req.Consumer)
		defer s.sequencer.Done(req.Consumer, token)
	}

	translated, err := s.translator.TranslateParagraphs(ctx, req.Text, req.TargetLang)
	if req.Consumer != "" && !s.sequencer.IsLatest(req.Consumer, token) {
		s.logger.Debug().Str("consumer", req.Consumer).Uint64("token", token).Msg("discarding superseded paragraph translation")
		return c.JSON(http.StatusOK, paragraphResponse{Superseded: true})
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("target_lang", req.TargetLang).Msg("paragraph translation unavailable")
		return c.JSON(http.StatusOK, paragraphResponse{
			Translated: req.Text,
			Error:      translationUnavailable,
		})
	}
	return c.JSON(http.StatusOK, paragraphResponse{Translated: translated})
}

func (s *Server) handleFetchArticle(c echo.Context) error {
	if s.fetcher == nil {
		return internalError(c, "Article fetching is not configured")
	}

	maxChars, err := parsePositiveInt(c.QueryParam("max_chars"), 0, 0, maxArticleChars)
	if err != nil {
		return failValidation(c, map[string]string{"max_chars": err.Error()})
	}

	article, err := s.fetcher.FetchArticle(c.Request().Context(), c.QueryParam("url"))
	if err != nil {
		switch {
		case errors.Is(err, reader.ErrInvalidURL):
			return failValidation(c, map[string]string{"url": err.Error()})
		case errors.Is(err, reader.ErrUnreachable):
			return fail(c, http.StatusBadGateway, "Article not reachable", nil)
		default:
			s.logger.Warn().Err(err).Str("url", c.QueryParam("url")).Msg("article extraction failed")
			return fail(c, http.StatusUnprocessableEntity, "Could not extract article", nil)
		}
	}

	if maxChars > 0 {
		article.TextContent, _ = reader.TruncateText(article.TextContent, maxChars)
	}
	return c.JSON(http.StatusOK, article)
}

func (s *Server) handleProxyImage(c echo.Context) error {
	if s.fetcher == nil {
		return internalError(c, "Image proxy is not configured")
	}

	image, err := s.fetcher.FetchImage(c.Request().Context(), c.QueryParam("url"))
	if err != nil {
		if errors.Is(err, reader.ErrInvalidURL) {
			return failValidation(c, map[string]string{"url": err.Error()})
		}
		s.logger.Debug().Err(err).Str("url", c.QueryParam("url")).Msg("image proxy miss")
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Image not reachable"})
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, image.ContentType, image.Data)
}

func (s *Server) requestError(c echo.Context, err error) error {
	var validationErr *payloadschema.ValidationError
	if errors.As(err, &validationErr) {
		return failValidation(c, validationErr.Fields)
	}
	s.logger.Error().Err(err).Msg("request validation failed")
	return internalError(c, "Failed to validate request")
}

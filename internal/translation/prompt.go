package translation

import (
	"encoding/json"
	"fmt"
	"strings"
)

type promptArticle struct {
	ArticleID   *string `json:"article_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

func buildBatchPrompt(articles []ArticleInput, targetLang string) (string, error) {
	payload := make([]promptArticle, 0, len(articles))
	for _, article := range articles {
		item := promptArticle{
			Title:       article.Title,
			Description: article.Description,
		}
		if id := strings.TrimSpace(article.ID); id != "" {
			item.ArticleID = &id
		}
		payload = append(payload, item)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode prompt payload: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following titles and descriptions into %s. Keep them concise and natural.\n", targetLang)
	b.WriteString(`Return ONLY a JSON array of objects with keys "article_id" (string or null), "title", and "description". `)
	b.WriteString("The order doesn't matter but include article_id so each item can be mapped back. ")
	b.WriteString("Do not add commentary or code fences.\n\n")
	b.Write(encoded)
	return b.String(), nil
}

func buildParagraphPrompt(text, targetLang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text into %s. ", targetLang)
	b.WriteString("Preserve paragraph breaks and formatting. ")
	b.WriteString("Return ONLY the translated text with the same paragraph structure and do not add any commentary. ")
	fmt.Fprintf(&b, "If the text is already in %s, return it unchanged.", targetLang)
	b.WriteString("\n\n")
	b.WriteString(text)
	return b.String()
}

// Package langdetect guesses the ISO 639-1 language of article text.
package langdetect

import (
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"

	"horse.fit/lingonews/internal/language"
)

const minLetters = 6

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectISO6391 returns the lowercase ISO 639-1 code of text, or "" when the sample is too short or ambiguous.
func DetectISO6391(text string) string {
	sample := strings.TrimSpace(text)
	if !hasEnoughLetters(sample) {
		return ""
	}

	detected, exists := getDetector().DetectLanguageOf(sample)
	if !exists {
		return ""
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	if len(code) != 2 {
		return ""
	}
	return code
}

func hasEnoughLetters(sample string) bool {
	letterCount := 0
	for _, r := range sample {
		if unicode.IsLetter(r) {
			letterCount++
			if letterCount >= minLetters {
				return true
			}
		}
	}
	return false
}

var detectable = []lingua.Language{
	lingua.Arabic,
	lingua.Bengali,
	lingua.Chinese,
	lingua.Dutch,
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Hindi,
	lingua.Indonesian,
	lingua.Italian,
	lingua.Japanese,
	lingua.Korean,
	lingua.Polish,
	lingua.Portuguese,
	lingua.Russian,
	lingua.Spanish,
	lingua.Swedish,
	lingua.Thai,
	lingua.Turkish,
	lingua.Ukrainian,
	lingua.Urdu,
	lingua.Vietnamese,
}

// Only languages the service can name are loaded, which keeps the model footprint small.
func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectable...).
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}

// Supported reports whether code (or a language name) is one of the detectable languages.
func Supported(code string) bool {
	normalized := language.Resolve(code)
	if normalized == "" {
		return false
	}
	for _, lang := range detectable {
		if strings.ToLower(lang.IsoCode639_1().String()) == normalized {
			return true
		}
	}
	return false
}

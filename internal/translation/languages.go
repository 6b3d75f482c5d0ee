package translation

import (
	"sort"
	"strings"

	"horse.fit/lingonews/internal/language"
)

// OriginalLang is the viewer choice that keeps content in its source language.
const OriginalLang = "original"

// IsOriginal reports whether targetLang asks for no translation.
func IsOriginal(targetLang string) bool {
	return strings.EqualFold(strings.TrimSpace(targetLang), OriginalLang)
}

type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native,omitempty"`
}

// TargetLanguageOptions lists the languages offered as translation targets, sorted by label.
func TargetLanguageOptions() []LanguageOption {
	known := language.Known()
	options := make([]LanguageOption, 0, len(known))
	for _, info := range known {
		option := LanguageOption{
			Code:  info.Code,
			Label: info.Name,
		}
		if !strings.EqualFold(info.Native, info.Name) {
			option.Native = info.Native
		}
		options = append(options, option)
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}

// ViewerLanguageOptions prepends the "Original" choice used by readers who want no translation.
func ViewerLanguageOptions() []LanguageOption {
	options := []LanguageOption{
		{
			Code:  OriginalLang,
			Label: "Original",
		},
	}
	return append(options, TargetLanguageOptions()...)
}

package language

import (
	"sort"
	"strings"
)

// Info describes one language known to the service.
type Info struct {
	Code   string
	Name   string
	Native string
}

var known = map[string]Info{
	"ar": {Code: "ar", Name: "Arabic", Native: "العربية"},
	"bn": {Code: "bn", Name: "Bengali", Native: "বাংলা"},
	"de": {Code: "de", Name: "German", Native: "Deutsch"},
	"en": {Code: "en", Name: "English", Native: "English"},
	"es": {Code: "es", Name: "Spanish", Native: "Español"},
	"fr": {Code: "fr", Name: "French", Native: "Français"},
	"hi": {Code: "hi", Name: "Hindi", Native: "हिन्दी"},
	"id": {Code: "id", Name: "Indonesian", Native: "Bahasa Indonesia"},
	"it": {Code: "it", Name: "Italian", Native: "Italiano"},
	"ja": {Code: "ja", Name: "Japanese", Native: "日本語"},
	"ko": {Code: "ko", Name: "Korean", Native: "한국어"},
	"nl": {Code: "nl", Name: "Dutch", Native: "Nederlands"},
	"pl": {Code: "pl", Name: "Polish", Native: "Polski"},
	"pt": {Code: "pt", Name: "Portuguese", Native: "Português"},
	"ru": {Code: "ru", Name: "Russian", Native: "Русский"},
	"sv": {Code: "sv", Name: "Swedish", Native: "Svenska"},
	"th": {Code: "th", Name: "Thai", Native: "ไทย"},
	"tr": {Code: "tr", Name: "Turkish", Native: "Türkçe"},
	"uk": {Code: "uk", Name: "Ukrainian", Native: "Українська"},
	"ur": {Code: "ur", Name: "Urdu", Native: "اردو"},
	"vi": {Code: "vi", Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh": {Code: "zh", Name: "Chinese", Native: "中文"},
}

var byName = func() map[string]string {
	index := make(map[string]string, len(known)*2)
	for code, info := range known {
		index[strings.ToLower(info.Name)] = code
		index[strings.ToLower(info.Native)] = code
	}
	return index
}()

// Resolve maps a language code, tag or English/native name to its primary ISO 639-1 code.
// Unknown names resolve to an empty string.
func Resolve(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if code, ok := byName[trimmed]; ok {
		return code
	}
	return primarySubtag(trimmed)
}

// primarySubtag extracts "pt" from tags such as "pt_BR", "pt-br" or "PT". Tags with anything
// but ASCII letters in the primary subtag, or a primary subtag that is not two or three letters
// long, yield an empty string.
func primarySubtag(tag string) string {
	primary, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	if len(primary) != 2 && len(primary) != 3 {
		return ""
	}
	for _, r := range primary {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return primary
}

// Same reports whether a and b name the same language. Unresolvable values never match.
func Same(a, b string) bool {
	left := Resolve(a)
	if left == "" {
		return false
	}
	return left == Resolve(b)
}

// DisplayName returns the English name for raw, falling back to the trimmed input.
func DisplayName(raw string) string {
	if info, ok := Lookup(raw); ok {
		return info.Name
	}
	return strings.TrimSpace(raw)
}

func Lookup(raw string) (Info, bool) {
	info, ok := known[Resolve(raw)]
	return info, ok
}

// Known lists every language with a display name, sorted by code.
func Known() []Info {
	codes := make([]string, 0, len(known))
	for code := range known {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]Info, 0, len(codes))
	for _, code := range codes {
		out = append(out, known[code])
	}
	return out
}

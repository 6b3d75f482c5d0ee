package language

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"es":         "es",
		"en":         "en",
		" EN-us ":    "en",
		"en-US":      "en",
		"pt_BR":      "pt",
		"zh_Hans":    "zh",
		"English":    "en",
		"english":    "en",
		"Spanish":    "es",
		"español":    "es",
		"Français":   "fr",
		"fil":        "fil",
		"Klingonese": "",
		"e1":         "",
		"-en":        "",
		"":           "",
	}
	for input, want := range cases {
		if got := Resolve(input); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSame(t *testing.T) {
	t.Parallel()

	matching := [][2]string{
		{"en", "English"},
		{"es-ES", "spanish"},
		{"español", "es"},
		{"pt_BR", "Portuguese"},
		{"en-US", "en-GB"},
	}
	for _, pair := range matching {
		if !Same(pair[0], pair[1]) {
			t.Fatalf("expected %q and %q to match", pair[0], pair[1])
		}
	}

	if Same("es", "English") {
		t.Fatalf("did not expect es and English to match")
	}
	if Same("", "") {
		t.Fatalf("did not expect empty values to match")
	}
	if Same("Klingon", "Klingon") {
		t.Fatalf("did not expect unresolvable values to match")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName("fr"); got != "French" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := DisplayName("pt_BR"); got != "Portuguese" {
		t.Fatalf("unexpected display name for regional tag: %q", got)
	}
	if got := DisplayName(" Klingon "); got != "Klingon" {
		t.Fatalf("unexpected fallback display name: %q", got)
	}
}

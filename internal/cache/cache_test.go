package cache

import (
	"strings"
	"testing"
)

func TestKeyUsesIdentifierWhenPresent(t *testing.T) {
	t.Parallel()

	if got := Key(" 42 ", "Hola", "Mundo", "English"); got != "42:English" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestKeyFingerprintsUntaggedContent(t *testing.T) {
	t.Parallel()

	first := Key("", "Hola", "Mundo", "English")
	second := Key("   ", "Hola", "Mundo", "English")
	if first != second {
		t.Fatalf("identical untagged content must share a key: %q vs %q", first, second)
	}
	if len(first) != 64 || strings.Contains(first, ":") {
		t.Fatalf("expected hex sha256 fingerprint, got %q", first)
	}
	if first != Fingerprint("Hola|Mundo|English") {
		t.Fatalf("fingerprint input mismatch")
	}
	if Key("", "Hola", "Mundo", "French") == first {
		t.Fatalf("target language must be part of the fingerprint")
	}
	if Key("", "Hola", "", "English") == first {
		t.Fatalf("description must be part of the fingerprint")
	}
}

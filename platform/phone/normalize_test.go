package phone

import "testing"

func TestNormalize_StripsWhitespaceAndEnsuresPlus(t *testing.T) {
	got := Normalize("316 1234 5678")
	if got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %q", got)
	}
}

func TestNormalize_KeepsExistingPlus(t *testing.T) {
	got := Normalize(" +31 6 12345678 ")
	if got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %q", got)
	}
}

func TestNormalize_InvalidNumberStillGetsPlusPrefix(t *testing.T) {
	got := Normalize("12")
	if got != "+12" {
		t.Fatalf("expected +12, got %q", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

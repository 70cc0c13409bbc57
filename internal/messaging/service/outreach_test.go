package service

import (
	"strings"
	"testing"
)

func TestParseEmailContent_WithSubjectMarker(t *testing.T) {
	content := "---SUBJECT---Quick question about your project\n\nHi Anna,\n\nJust following up."

	subject, body := ParseEmailContent(content)
	if subject != "Quick question about your project" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.HasPrefix(body, "Hi Anna,") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseEmailContent_WithoutMarker(t *testing.T) {
	content := "Hi there, just checking in."

	subject, body := ParseEmailContent(content)
	if subject != defaultEmailSubject {
		t.Fatalf("expected default subject, got %q", subject)
	}
	if body != content {
		t.Fatalf("expected body unchanged, got %q", body)
	}
}

func TestParseEmailContent_EmptySubjectLine(t *testing.T) {
	content := "---SUBJECT---\nBody text here."

	subject, body := ParseEmailContent(content)
	if subject != defaultEmailSubject {
		t.Fatalf("expected default subject for empty line, got %q", subject)
	}
	if body != "Body text here." {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestFallbackMessage_PerChannel(t *testing.T) {
	emailMsg := fallbackMessage("Anna", "email")
	if !strings.Contains(emailMsg, subjectMarker) {
		t.Fatal("email fallback must carry a subject marker")
	}
	if !strings.Contains(emailMsg, "Anna") {
		t.Fatal("email fallback must address the lead by name")
	}

	waMsg := fallbackMessage("Anna", "whatsapp")
	if strings.Contains(waMsg, subjectMarker) {
		t.Fatal("whatsapp fallback must not carry a subject marker")
	}
	if !strings.Contains(waMsg, "Anna") {
		t.Fatal("whatsapp fallback must address the lead by name")
	}
}

func TestFallbackEmailRoundTrip(t *testing.T) {
	subject, body := ParseEmailContent(fallbackMessage("Anna", "email"))
	if subject != defaultEmailSubject {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.HasPrefix(body, "Hi Anna,") {
		t.Fatalf("unexpected body start %q", body)
	}
}

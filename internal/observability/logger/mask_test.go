package logger

import "testing"

func TestMaskContactPhone(t *testing.T) {
	got := MaskContact("+919876543210")
	if got != "*********3210" {
		t.Fatalf("unexpected mask: %q", got)
	}
}

func TestMaskContactEmail(t *testing.T) {
	got := MaskContact("guardian.sharma@example.com")
	if got != "***********arma@example.com" {
		t.Fatalf("unexpected mask: %q", got)
	}
}

func TestMaskContactShort(t *testing.T) {
	if got := MaskContact("123"); got != "***" {
		t.Fatalf("unexpected mask: %q", got)
	}
	if got := MaskContact("  "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

package utils

import (
	"strings"
	"testing"
	"time"
)

func TestNewBookingCode(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	code := NewBookingCode(now)
	if !strings.HasPrefix(code, "BK-20250601-") {
		t.Fatalf("unexpected code prefix: %s", code)
	}
	if len(code) != len("BK-20250601-")+6 {
		t.Fatalf("unexpected code length: %s", code)
	}
}

func TestNewVerificationCode(t *testing.T) {
	code := NewVerificationCode()
	if len(code) != 6 {
		t.Fatalf("verification code should have 6 chars, got %q", code)
	}
}

func TestNewRefundID(t *testing.T) {
	id := NewRefundID()
	if !strings.HasPrefix(id, "RF-") || len(id) != 11 {
		t.Fatalf("unexpected refund id: %q", id)
	}
}

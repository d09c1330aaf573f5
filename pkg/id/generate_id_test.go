package id

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
}

func TestNewID32_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID32()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

var reApplicationID = regexp.MustCompile(`^LIC-[0-9A-Z]+-[0-9A-Z]{9}$`)

func TestNewApplicationID_Format(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	got := NewApplicationID(now)
	if !reApplicationID.MatchString(got) {
		t.Fatalf("application id %q does not match %s", got, reApplicationID)
	}
	parts := strings.Split(got, "-")
	ms, err := strconv.ParseInt(strings.ToLower(parts[1]), 36, 64)
	if err != nil {
		t.Fatalf("timestamp segment not base36: %v", err)
	}
	if ms != now.UnixMilli() {
		t.Fatalf("timestamp = %d, want %d", ms, now.UnixMilli())
	}
}

func TestNewTransactionID_Format(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	got := NewTransactionID("CARD", now)
	re := regexp.MustCompile(`^CARD_1767225600000_[0-9a-z]{9}$`)
	if !re.MatchString(got) {
		t.Fatalf("transaction id %q", got)
	}
}

func TestNewLicenseNumber_Format(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	tests := []struct {
		licenseType string
		want        *regexp.Regexp
	}{
		{"car", regexp.MustCompile(`^CAR-1767225600000-[0-9A-Z]{6}$`)},
		{"motorcycle", regexp.MustCompile(`^MOTORCYCLE-1767225600000-[0-9A-Z]{6}$`)},
		{"category_b", regexp.MustCompile(`^CATEGORY_B-1767225600000-[0-9A-Z]{6}$`)},
	}
	for _, tt := range tests {
		if got := NewLicenseNumber(tt.licenseType, now); !tt.want.MatchString(got) {
			t.Errorf("NewLicenseNumber(%q) = %q", tt.licenseType, got)
		}
	}
}

func TestRandomDigits_OnlyDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := RandomDigits(6)
		if len(got) != 6 {
			t.Fatalf("len = %d", len(got))
		}
		for _, r := range got {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in %q", got)
			}
		}
	}
}

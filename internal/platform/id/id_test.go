package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func TestNewIDIsLowercaseBase32UUID(t *testing.T) {
	id, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("len = %d, want 26", len(id))
	}
	if id != strings.ToLower(id) || strings.Contains(id, "=") {
		t.Fatalf("id %q must be lowercase without padding", id)
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if version := decoded[6] >> 4; version != 4 {
		t.Fatalf("version = %d, want 4", version)
	}
	if variant := decoded[8] & 0xC0; variant != 0x80 {
		t.Fatalf("variant = 0x%X, want 0x80", variant)
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool, 100)
	for range 100 {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

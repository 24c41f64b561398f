package auth

import (
	"encoding/base64"
	"testing"
)

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		t.Fatalf("state is not URL-safe base64: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("state entropy = %d bytes, want 32", len(raw))
	}
}

func TestGenerateStateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("GenerateState failed: %v", err)
		}
		if seen[state] {
			t.Fatalf("duplicate state after %d generations", i)
		}
		seen[state] = true
	}
}

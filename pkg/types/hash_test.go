package types

import (
	"encoding/json"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Error("zero-value Hash should be zero")
	}
	h[5] = 1
	if h.IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestDigest_Roundtrip(t *testing.T) {
	var d Digest
	for i := range d {
		d[i] = byte(255 - i)
	}

	parsed, err := ParseDigest(d.String())
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != d {
		t.Errorf("roundtrip mismatch: %s != %s", parsed, d)
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var fromJSON Digest
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if fromJSON != d {
		t.Errorf("JSON roundtrip mismatch")
	}
}

func TestParseDigest_Invalid(t *testing.T) {
	if _, err := ParseDigest("0OIl"); err == nil {
		t.Error("expected error for non-base58 characters")
	}
	if _, err := ParseDigest("3yZe7d"); err == nil {
		t.Error("expected error for short digest")
	}
}

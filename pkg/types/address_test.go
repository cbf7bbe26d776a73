package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero-value Address should be zero")
	}
	if (Address{0x01}).IsZero() {
		t.Error("non-zero Address should not be zero")
	}
}

func TestAddress_String(t *testing.T) {
	a := Address{0xab}
	a[31] = 0xcd
	s := a.String()
	if len(s) != 66 {
		t.Fatalf("len(String()) = %d, want 66", len(s))
	}
	if !strings.HasPrefix(s, "0xab") || !strings.HasSuffix(s, "cd") {
		t.Errorf("String() = %s", s)
	}
}

func TestParseAddress(t *testing.T) {
	full := "0x" + strings.Repeat("1f", 32)
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"full", full, full, false},
		{"uppercase hex", "0x" + strings.Repeat("1F", 32), full, false},
		{"short form padded", "0x2", "0x" + strings.Repeat("0", 63) + "2", false},
		{"empty", "", "", true},
		{"no prefix", strings.Repeat("1f", 32), "", true},
		{"prefix only", "0x", "", true},
		{"too long", "0x" + strings.Repeat("1f", 33), "", true},
		{"not hex", "0x" + strings.Repeat("zz", 32), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAddress(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseAddress(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestAddress_JSONRoundtrip(t *testing.T) {
	a := Address{0x01, 0x02, 0x03}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Address
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != a {
		t.Errorf("roundtrip = %s, want %s", got, a)
	}
}

func TestAddress_Short(t *testing.T) {
	a := MustParseAddress("0x" + "abcd" + strings.Repeat("0", 56) + "1234")
	if got := a.Short(); got != "0xabcd…1234" {
		t.Errorf("Short() = %q", got)
	}
}

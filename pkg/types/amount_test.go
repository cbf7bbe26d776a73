package types

import (
	"errors"
	"math"
	"testing"
)

func TestParseSUI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"one", "1", MistPerSUI, false},
		{"half", "0.5", 500_000_000, false},
		{"one mist", "0.000000001", 1, false},
		{"trailing zeros beyond precision", "1.5000000000", 1_500_000_000, false},
		{"surrounding space", " 2 ", 2 * MistPerSUI, false},
		{"max", "18446744073.709551615", math.MaxUint64, false},
		{"empty", "", 0, true},
		{"negative", "-1", 0, true},
		{"too precise", "0.0000000001", 0, true},
		{"overflow", "18446744073.709551616", 0, true},
		{"not a number", "abc", 0, true},
		{"exponent", "1.5e3", 1500 * MistPerSUI, false},
		{"huge exponent", "1e200000000", 0, true},
		{"tiny exponent", "1e-200000000", 0, true},
		{"overflow exponent", "1e21", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSUI(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSUI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseSUI(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseSUI(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSUI(t *testing.T) {
	tests := []struct {
		mist   uint64
		places int32
		want   string
	}{
		{0, 6, "0.000000"},
		{MistPerSUI, 6, "1.000000"},
		{1_234_567_890, 6, "1.234568"},
		{1, 9, "0.000000001"},
		{2_500_000_000, 2, "2.50"},
	}
	for _, tt := range tests {
		if got := FormatSUI(tt.mist, tt.places); got != tt.want {
			t.Errorf("FormatSUI(%d, %d) = %q, want %q", tt.mist, tt.places, got, tt.want)
		}
	}
}

func TestFormatSUIExact(t *testing.T) {
	if got := FormatSUIExact(1_500_000_000); got != "1.5" {
		t.Errorf("FormatSUIExact = %q, want 1.5", got)
	}
	if got := FormatSUIExact(7); got != "0.000000007" {
		t.Errorf("FormatSUIExact = %q, want 0.000000007", got)
	}
}

func TestMulMist(t *testing.T) {
	if got, ok := MulMist(MistPerSUI, 3); !ok || got != 3*MistPerSUI {
		t.Errorf("MulMist = %d, %v", got, ok)
	}
	if _, ok := MulMist(math.MaxUint64, 2); ok {
		t.Error("MulMist should report overflow")
	}
	if _, ok := MulMist(1, -1); ok {
		t.Error("MulMist should reject negative counts")
	}
}

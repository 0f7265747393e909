package scraper

import (
	"errors"
	"testing"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"thousands suffix", "12K", 12000},
		{"millions suffix", "3.4M", 3400000},
		{"plain integer", "57", 57},
		{"plain decimal", "8.4", 8.4},
		{"decimal with thousands suffix", "1.2K", 1200},
		{"integer rating", "8", 8},
		{"surrounding whitespace", " 12K ", 12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNumber(tt.text)
			if err != nil {
				t.Fatalf("ToNumber(%q) error = %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ToNumber(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestToNumber_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"not a number", "abc"},
		{"garbage before suffix", "abcK"},
		{"unrecognized suffix", "12Q"},
		{"suffix only", "K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToNumber(tt.text)
			if !errors.Is(err, ErrParse) {
				t.Errorf("ToNumber(%q) error = %v, want ErrParse", tt.text, err)
			}
		})
	}
}

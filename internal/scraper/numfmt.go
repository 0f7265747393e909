package scraper

import (
	"fmt"
	"strconv"
	"strings"
)

// magnitudes maps IMDb's abbreviated count suffixes to multipliers.
var magnitudes = map[byte]float64{
	'K': 1_000,
	'M': 1_000_000,
}

// ToNumber converts an abbreviated numeric text such as "12K" or "3.4M"
// into its expanded value. Text without a recognized suffix is parsed as a
// plain decimal. Vote counts and ratings on IMDb both pass through here.
func ToNumber(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: empty text", ErrParse)
	}

	mult := 1.0
	if m, ok := magnitudes[text[len(text)-1]]; ok {
		mult = m
		text = text[:len(text)-1]
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, text)
	}
	return n * mult, nil
}

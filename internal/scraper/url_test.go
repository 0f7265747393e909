package scraper

import "testing"

func TestIsValidTitleURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"valid title", "https://www.imdb.com/title/tt1234567/", true},
		{"valid short id", "https://www.imdb.com/title/tt1/", true},
		{"wrong host", "http://example.com/title/tt1234567/", false},
		{"missing trailing slash", "https://www.imdb.com/title/tt1234567", false},
		{"wrong scheme", "ftp://www.imdb.com/title/tt1234567/", false},
		{"plain http", "http://www.imdb.com/title/tt1234567/", false},
		{"no scheme", "www.imdb.com/title/tt1234567/", false},
		{"non-numeric id", "https://www.imdb.com/title/ttabc/", false},
		{"trailing content", "https://www.imdb.com/title/tt1234567/fullcredits/", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTitleURL(tt.url); got != tt.want {
				t.Errorf("IsValidTitleURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestEpisodesURL(t *testing.T) {
	root := "https://www.imdb.com/title/tt1234567/"

	if got := EpisodesURL(root, 0); got != root+"episodes/?season=" {
		t.Errorf("EpisodesURL(root, 0) = %q", got)
	}
	if got := EpisodesURL(root, 3); got != root+"episodes/?season=3" {
		t.Errorf("EpisodesURL(root, 3) = %q", got)
	}
}

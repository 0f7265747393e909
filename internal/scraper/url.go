package scraper

import (
	"fmt"
	"net/url"
	"regexp"
)

// episodesSuffix is appended to a show root URL to reach its episode
// listing. An empty season value yields the season-tab index page.
const episodesSuffix = "episodes/?season="

// titlePattern matches a fully derived episodes-listing URL with nothing
// trailing. The title ID is IMDb's tt-prefixed numeric identifier.
var titlePattern = regexp.MustCompile(`^https://www\.imdb\.com/title/tt\d+/episodes/\?season=$`)

// IsValidTitleURL reports whether raw is a well-formed IMDb show root URL
// of the shape https://www.imdb.com/title/<id>/ (trailing slash required,
// since the episodes suffix is appended verbatim). It never touches the
// network.
func IsValidTitleURL(raw string) bool {
	derived := raw + episodesSuffix

	parsed, err := url.Parse(derived)
	if err != nil {
		return false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	return titlePattern.MatchString(derived)
}

// EpisodesURL derives the episode listing URL for one season of the show
// rooted at root. Season 0 yields the season-less index page used for
// season tab discovery.
func EpisodesURL(root string, season int) string {
	if season <= 0 {
		return root + episodesSuffix
	}
	return fmt.Sprintf("%s%s%d", root, episodesSuffix, season)
}

package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// IMDb episode page selectors. The sc-prefixed and obfuscated class names
// are generated by IMDb's styling pipeline and change when the site is
// redeployed; they are kept in one place so an update touches only these
// constants.
const (
	episodeBlockSelector = "div.kyIRYf"
	episodeTitleSelector = "div.ipc-title__text"
	ratingStarSelector   = "span.ipc-rating-star"
	airDateSelector      = "span.fyHWhz"
	descriptionSelector  = "div.ipc-html-content-inner-div"

	// titleSeparator splits "S1.E3 ∙ Some Title" into its two halves.
	titleSeparator = " ∙ "

	// airDateLayout matches texts like "Mon, Jan 5, 2024".
	airDateLayout = "Mon, Jan 2, 2006"
)

var (
	episodeNumberPattern = regexp.MustCompile(`S[0-9]+\.E([0-9]+)`)
	ratingValuePattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	voteCountPattern     = regexp.MustCompile(`\(([^)]*)\)`)
)

// Episode is one extracted per-episode record. Season and
// CumulativeEpisodeNumber are assigned by the series orchestrator; the
// extractor fills the remaining fields from one season's markup.
type Episode struct {
	Season                  int       `json:"season"`
	EpisodeNumber           int       `json:"episode_number"`
	CumulativeEpisodeNumber int       `json:"cumulative_episode_number"`
	Title                   string    `json:"title"`
	AirDate                 time.Time `json:"air_date"`
	RatingValue             float64   `json:"rating_value"`
	Votes                   float64   `json:"votes"`
	Description             string    `json:"description"`
}

// EpisodeSkip records one episode block that could not be extracted and
// the reason it was passed over.
type EpisodeSkip struct {
	Season int    `json:"season"`
	Block  int    `json:"block"`
	Reason string `json:"reason"`
}

// ExtractEpisodes parses one season's markup into episode records. An
// episode block with no rating element marks the end of known data for the
// season (future or unaired entries carry no rating), so extraction stops
// there rather than skipping past it. Blocks with other malformed fields
// are recorded as skips and extraction continues.
func ExtractEpisodes(html string) ([]Episode, []EpisodeSkip, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse season markup: %w", err)
	}

	var (
		episodes []Episode
		skips    []EpisodeSkip
	)

	blocks := doc.Find(episodeBlockSelector)
	for i := 0; i < blocks.Length(); i++ {
		block := blocks.Eq(i)

		// Unaired episodes have a block but no rating star. Everything
		// after the first such block is future data, so stop here.
		if block.Find(ratingStarSelector).Length() == 0 {
			break
		}

		ep, err := extractEpisode(block)
		if err != nil {
			skips = append(skips, EpisodeSkip{Block: i + 1, Reason: err.Error()})
			continue
		}
		episodes = append(episodes, ep)
	}

	return episodes, skips, nil
}

// extractEpisode parses a single episode block.
func extractEpisode(block *goquery.Selection) (Episode, error) {
	var ep Episode

	// The title element holds both halves: "S1.E3 ∙ Some Title".
	combined := strings.TrimSpace(block.Find(episodeTitleSelector).Text())
	if combined == "" {
		return ep, fmt.Errorf("%w: episode title", ErrExtraction)
	}

	numberPart, titlePart, found := strings.Cut(combined, titleSeparator)
	if !found {
		return ep, fmt.Errorf("%w: title separator in %q", ErrExtraction, combined)
	}

	num, err := strconv.Atoi(episodeNumberPattern.ReplaceAllString(numberPart, "$1"))
	if err != nil {
		return ep, fmt.Errorf("%w: episode number in %q", ErrExtraction, numberPart)
	}
	ep.EpisodeNumber = num
	ep.Title = titlePart

	rating := strings.TrimSpace(block.Find(ratingStarSelector).Text())

	ratingMatch := ratingValuePattern.FindStringSubmatch(rating)
	if ratingMatch == nil {
		return ep, fmt.Errorf("%w: rating value in %q", ErrExtraction, rating)
	}
	ep.RatingValue, err = ToNumber(ratingMatch[1])
	if err != nil {
		return ep, err
	}

	votesMatch := voteCountPattern.FindStringSubmatch(rating)
	if votesMatch == nil {
		return ep, fmt.Errorf("%w: vote count in %q", ErrExtraction, rating)
	}
	ep.Votes, err = ToNumber(votesMatch[1])
	if err != nil {
		return ep, err
	}

	airDateText := strings.TrimSpace(block.Find(airDateSelector).Text())
	ep.AirDate, err = time.Parse(airDateLayout, airDateText)
	if err != nil {
		return ep, fmt.Errorf("%w: %q", ErrDateParse, airDateText)
	}

	desc := block.Find(descriptionSelector)
	if desc.Length() == 0 {
		return ep, fmt.Errorf("%w: description", ErrExtraction)
	}
	ep.Description = strings.TrimSpace(desc.Text())

	return ep, nil
}

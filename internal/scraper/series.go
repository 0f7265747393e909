package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IMDb title and episodes-index page selectors, same caveat as the episode
// block selectors: the sc-prefixed classes track IMDb deployments.
const (
	aggregateRatingSelector = "span.sc-bde20123-1.cMEQkK"
	aggregateVotesSelector  = "div.sc-bde20123-3.gPVQxL"
	showNameSelector        = "h2.sc-a885edd8-9.dcErWY"
	posterImageSelector     = "img.ipc-image"
	seasonTabSelector       = "li[data-testid=tab-season-entry]"
)

// Broadcaster publishes progress events to interested listeners. The
// WebSocket hub satisfies this.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Series orchestrates a full scrape: root page metadata, season tab
// discovery, then one sequential fetch+extract pass per season. Exactly
// one request is in flight at any time.
type Series struct {
	fetcher     *Fetcher
	logger      zerolog.Logger
	broadcaster Broadcaster
}

// NewSeries creates a series extractor using the given fetcher.
func NewSeries(fetcher *Fetcher, logger zerolog.Logger) *Series {
	return &Series{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "series").Logger(),
	}
}

// SetBroadcaster enables progress event publishing.
func (s *Series) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Extract runs the whole pipeline for the show rooted at rootURL and
// returns an immutable session. A root or index page failure aborts the
// scrape; a season page failing with a classified fetch error is recorded
// as a skip and extraction continues with the next season.
func (s *Series) Extract(ctx context.Context, rootURL string) (*Session, error) {
	session := &Session{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
	}

	s.broadcast("scrape:started", map[string]interface{}{"url": rootURL})

	rootHTML, err := s.fetcher.Fetch(ctx, rootURL)
	if err != nil {
		return nil, fmt.Errorf("fetching title page: %w", err)
	}

	if err := s.parseAggregates(rootHTML, &session.Meta); err != nil {
		return nil, err
	}

	indexHTML, err := s.fetcher.Fetch(ctx, EpisodesURL(rootURL, 0))
	if err != nil {
		return nil, fmt.Errorf("fetching episodes index: %w", err)
	}

	seasonCount, err := s.parseIndex(indexHTML, &session.Meta)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("show", session.Meta.ShowName).
		Int("seasons", seasonCount).
		Msg("starting season extraction")

	cumulative := 0
	for season := 1; season <= seasonCount; season++ {
		s.broadcast("scrape:season", map[string]interface{}{
			"season": season,
			"total":  seasonCount,
		})

		seasonHTML, err := s.fetcher.Fetch(ctx, EpisodesURL(rootURL, season))
		if err != nil {
			if !IsFetchError(err) {
				return nil, fmt.Errorf("season %d: %w", season, err)
			}
			s.logger.Warn().Err(err).Int("season", season).Msg("season page fetch failed, skipping season")
			session.SkippedSeasons = append(session.SkippedSeasons, SeasonSkip{
				Season: season,
				Reason: err.Error(),
			})
			s.broadcast("scrape:season_skipped", map[string]interface{}{
				"season": season,
				"reason": err.Error(),
			})
			continue
		}

		episodes, skips, err := ExtractEpisodes(seasonHTML)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", season, err)
		}

		for i := range episodes {
			cumulative++
			episodes[i].Season = season
			episodes[i].CumulativeEpisodeNumber = cumulative
		}
		session.Episodes = append(session.Episodes, episodes...)

		for _, skip := range skips {
			skip.Season = season
			session.SkippedEpisodes = append(session.SkippedEpisodes, skip)
			s.logger.Warn().
				Int("season", season).
				Int("block", skip.Block).
				Str("reason", skip.Reason).
				Msg("skipped malformed episode block")
		}
	}

	session.FinishedAt = time.Now().UTC()

	s.logger.Info().
		Str("show", session.Meta.ShowName).
		Int("episodes", len(session.Episodes)).
		Int("skippedSeasons", len(session.SkippedSeasons)).
		Int("skippedEpisodes", len(session.SkippedEpisodes)).
		Dur("elapsed", session.FinishedAt.Sub(session.StartedAt)).
		Msg("scrape complete")

	s.broadcast("scrape:done", map[string]interface{}{
		"episodes": len(session.Episodes),
		"show":     session.Meta.ShowName,
	})

	return session, nil
}

// parseAggregates pulls the show-level rating and vote count from the
// title page markup.
func (s *Series) parseAggregates(html string, meta *SeriesMeta) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse title page: %w", err)
	}

	ratingText := strings.TrimSpace(doc.Find(aggregateRatingSelector).Text())
	if ratingText == "" {
		return fmt.Errorf("%w: aggregate rating", ErrExtraction)
	}
	meta.AggregateRating, err = ToNumber(ratingText)
	if err != nil {
		return err
	}

	votesText := strings.TrimSpace(doc.Find(aggregateVotesSelector).Text())
	if votesText == "" {
		return fmt.Errorf("%w: aggregate votes", ErrExtraction)
	}
	meta.AggregateVotes, err = ToNumber(votesText)
	if err != nil {
		return err
	}

	return nil
}

// parseIndex reads the season-less episodes page: show name, poster URL
// and the season tab labels. Non-integer tab labels ("Unknown", specials)
// are logged and skipped; the season range is then the contiguous run from
// 1 to the highest integer label, so a skipped tab never removes a season
// from the iteration.
func (s *Series) parseIndex(html string, meta *SeriesMeta) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse episodes index: %w", err)
	}

	meta.ShowName = strings.TrimSpace(doc.Find(showNameSelector).Text())
	if meta.ShowName == "" {
		return 0, fmt.Errorf("%w: show name", ErrExtraction)
	}

	// Both the alt text and the image class have to match, otherwise
	// related-title artwork on the same page can be picked up.
	meta.PosterURL = PosterNotFound
	doc.Find(posterImageSelector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if img.AttrOr("alt", "") != meta.ShowName {
			return true
		}
		if src, ok := img.Attr("src"); ok {
			meta.PosterURL = src
			return false
		}
		return true
	})

	maxSeason := 0
	doc.Find(seasonTabSelector).Each(func(_ int, tab *goquery.Selection) {
		label := strings.TrimSpace(tab.Text())
		n, err := strconv.Atoi(label)
		if err != nil {
			s.logger.Debug().Str("label", label).Msg("skipping non-integer season tab")
			return
		}
		if n > maxSeason {
			maxSeason = n
		}
	})
	if maxSeason == 0 {
		return 0, fmt.Errorf("%w: season tabs", ErrExtraction)
	}

	return maxSeason, nil
}

// broadcast publishes a progress event when a broadcaster is attached.
func (s *Series) broadcast(msgType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(msgType, payload); err != nil {
		s.logger.Debug().Err(err).Str("type", msgType).Msg("failed to broadcast progress event")
	}
}

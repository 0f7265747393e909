package scraper

import (
	"time"

	"github.com/google/uuid"
)

// PosterNotFound is the sentinel poster URL used when no image on the
// episodes index page matches the show. Poster lookup never fails.
const PosterNotFound = "Image not found"

// SeriesMeta is the show-level metadata parsed once per scrape.
type SeriesMeta struct {
	AggregateRating float64 `json:"aggregate_rating"`
	AggregateVotes  float64 `json:"aggregate_votes"`
	ShowName        string  `json:"show_name"`
	PosterURL       string  `json:"poster_url"`
}

// SeasonSkip records a season that contributed no episodes because its
// page fetch failed with a classified error.
type SeasonSkip struct {
	Season int    `json:"season"`
	Reason string `json:"reason"`
}

// Session is the complete result of one scrape invocation. It is built
// once and never mutated afterwards; each new scrape produces a fresh
// session.
type Session struct {
	ID              uuid.UUID     `json:"id"`
	Episodes        []Episode     `json:"episodes"`
	Meta            SeriesMeta    `json:"meta"`
	SkippedSeasons  []SeasonSkip  `json:"skipped_seasons"`
	SkippedEpisodes []EpisodeSkip `json:"skipped_episodes"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      time.Time     `json:"finished_at"`
}

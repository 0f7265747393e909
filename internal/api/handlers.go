package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/episcope/episcope/internal/config"
	"github.com/episcope/episcope/internal/scraper"
	"github.com/episcope/episcope/internal/stats"
)

// ScrapeRequest is the body of POST /api/scrape.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeResponse bundles the session with its derived figures.
type ScrapeResponse struct {
	Session *scraper.Session `json:"session"`
	Stats   *stats.Report    `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

// handleScrape validates the submitted URL, runs the full extraction
// pipeline inside the request context and returns the session plus stats.
// Client disconnect cancels an in-progress scrape.
func (s *Server) handleScrape(c echo.Context) error {
	var req ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	rawURL := strings.TrimSpace(req.URL)
	if !scraper.IsValidTitleURL(rawURL) {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error: "Invalid URL. Please enter a valid IMDb title URL of the form https://www.imdb.com/title/tt1234567/",
		})
	}

	session, err := s.series.Extract(c.Request().Context(), rawURL)
	if err != nil {
		s.logger.Error().Err(err).Str("url", rawURL).Msg("scrape failed")
		if s.hub != nil {
			_ = s.hub.Broadcast("scrape:failed", map[string]interface{}{
				"url":   rawURL,
				"error": err.Error(),
			})
		}
		return c.JSON(scrapeErrorStatus(err), errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, ScrapeResponse{
		Session: session,
		Stats:   stats.BuildReport(session.Episodes),
	})
}

// scrapeErrorStatus maps pipeline failures onto HTTP statuses: upstream
// fetch problems are a bad gateway, extraction and parse problems on IMDb's
// markup are a bad gateway too (the upstream page changed), anything else
// is internal.
func scrapeErrorStatus(err error) int {
	switch {
	case scraper.IsFetchError(err),
		errors.Is(err, scraper.ErrExtraction),
		errors.Is(err, scraper.ErrParse),
		errors.Is(err, scraper.ErrDateParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

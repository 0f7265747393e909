package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/episcope/episcope/internal/api"
	"github.com/episcope/episcope/internal/config"
	"github.com/episcope/episcope/internal/logger"
	"github.com/episcope/episcope/internal/scraper"
	"github.com/episcope/episcope/internal/websocket"
	"github.com/episcope/episcope/web"
)

func main() {
	// Local development overrides; missing .env is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	scrapeURL := flag.String("scrape", "", "Scrape one IMDb title URL, write CSV and exit")
	outPath := flag.String("out", "", "CSV output path for -scrape (default: stdout)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	if *scrapeURL != "" {
		if err := runScrape(cfg, log, *scrapeURL, *outPath); err != nil {
			log.Fatal().Err(err).Msg("scrape failed")
		}
		return
	}

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting EpiScope")

	hub := websocket.NewHub()
	go hub.Run()

	server := api.NewServer(cfg, hub, log.Logger)

	if distFS, err := web.DistFS(); err == nil {
		server.RegisterFrontend(distFS)
	} else {
		log.Warn().Err(err).Msg("embedded frontend unavailable, serving API only")
	}

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}

// runScrape executes the pipeline once without starting the server and
// writes the dataset as CSV.
func runScrape(cfg *config.Config, log *logger.Logger, rawURL, outPath string) error {
	if !scraper.IsValidTitleURL(rawURL) {
		return fmt.Errorf("%w: %s", scraper.ErrInvalidURL, rawURL)
	}

	fetcher := scraper.NewFetcher(cfg.Scraper, log.Logger)
	series := scraper.NewSeries(fetcher, log.Logger)

	session, err := series.Extract(context.Background(), rawURL)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := writeCSV(out, session); err != nil {
		return err
	}

	log.Info().
		Str("show", session.Meta.ShowName).
		Int("episodes", len(session.Episodes)).
		Int("skippedSeasons", len(session.SkippedSeasons)).
		Int("skippedEpisodes", len(session.SkippedEpisodes)).
		Msg("scrape written")

	for _, skip := range session.SkippedSeasons {
		log.Warn().Int("season", skip.Season).Str("reason", skip.Reason).Msg("season was skipped")
	}

	return nil
}

func writeCSV(w io.Writer, session *scraper.Session) error {
	cw := csv.NewWriter(w)

	header := []string{
		"season", "episode_number", "cumulative_episode_number",
		"title", "air_date", "rating_value", "votes", "description",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, ep := range session.Episodes {
		record := []string{
			strconv.Itoa(ep.Season),
			strconv.Itoa(ep.EpisodeNumber),
			strconv.Itoa(ep.CumulativeEpisodeNumber),
			ep.Title,
			ep.AirDate.Format("2006-01-02"),
			strconv.FormatFloat(ep.RatingValue, 'f', -1, 64),
			strconv.FormatFloat(ep.Votes, 'f', -1, 64),
			ep.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

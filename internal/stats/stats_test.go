package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/episcope/episcope/internal/scraper"
)

func ep(season, num int, rating, votes float64) scraper.Episode {
	return scraper.Episode{
		Season:        season,
		EpisodeNumber: num,
		RatingValue:   rating,
		Votes:         votes,
	}
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestSeasonAverages(t *testing.T) {
	episodes := []scraper.Episode{
		ep(1, 1, 8, 100),
		ep(1, 2, 9, 100),
		ep(2, 1, 6, 100),
	}

	want := []SeasonAverage{
		{Season: 1, AverageRating: 8.5, EpisodeCount: 2},
		{Season: 2, AverageRating: 6, EpisodeCount: 1},
	}

	if diff := cmp.Diff(want, SeasonAverages(episodes), approx); diff != "" {
		t.Errorf("SeasonAverages() mismatch (-want +got):\n%s", diff)
	}
}

func TestTopNBottomN(t *testing.T) {
	episodes := []scraper.Episode{
		ep(1, 1, 7.5, 100),
		ep(1, 2, 9.1, 100),
		ep(1, 3, 6.2, 100),
		ep(1, 4, 9.1, 100),
	}

	top := TopN(episodes, 2)
	if len(top) != 2 {
		t.Fatalf("TopN returned %d episodes, want 2", len(top))
	}
	// Tied episodes keep extraction order: E2 before E4.
	if top[0].EpisodeNumber != 2 || top[1].EpisodeNumber != 4 {
		t.Errorf("TopN order = E%d, E%d; want E2, E4", top[0].EpisodeNumber, top[1].EpisodeNumber)
	}

	bottom := BottomN(episodes, 1)
	if len(bottom) != 1 || bottom[0].EpisodeNumber != 3 {
		t.Errorf("BottomN = %+v, want E3", bottom)
	}

	// Requesting more than exists returns everything.
	if got := TopN(episodes, 10); len(got) != 4 {
		t.Errorf("TopN(10) returned %d episodes, want 4", len(got))
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]float64{1, 2, 3, 4})

	want := Summary{
		Mean:   2.5,
		StdDev: math.Sqrt(5.0 / 3.0), // sample std dev
		Median: 2.5,
		Range:  3,
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_OddCountAndSingle(t *testing.T) {
	got := Summarize([]float64{3, 1, 2})
	if got.Median != 2 {
		t.Errorf("Median = %v, want 2", got.Median)
	}

	single := Summarize([]float64{7})
	if single.Mean != 7 || single.StdDev != 0 || single.Median != 7 || single.Range != 0 {
		t.Errorf("Summarize single value = %+v", single)
	}

	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{1, 2, 3, 4}, 3)
	if len(bins) != 3 {
		t.Fatalf("Histogram returned %d bins, want 3", len(bins))
	}

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != 4 {
		t.Errorf("histogram counts sum to %d, want 4", total)
	}

	// Maximum value lands in the last bucket, not past it.
	if bins[2].Count != 2 { // 3 and 4
		t.Errorf("last bin count = %d, want 2", bins[2].Count)
	}

	uniform := Histogram([]float64{5, 5, 5}, 10)
	if len(uniform) != 1 || uniform[0].Count != 3 {
		t.Errorf("Histogram of identical values = %+v, want one full bin", uniform)
	}

	if Histogram(nil, 5) != nil {
		t.Error("Histogram(nil) != nil")
	}
}

func TestRatingPivot(t *testing.T) {
	episodes := []scraper.Episode{
		ep(1, 1, 8.0, 100),
		ep(1, 2, 8.5, 100),
		ep(3, 1, 7.0, 100), // season 2 absent entirely
	}

	pivot := RatingPivot(episodes)

	wantSeasons := []int{1, 3}
	if diff := cmp.Diff(wantSeasons, pivot.Seasons); diff != "" {
		t.Errorf("Seasons mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, pivot.Episodes); diff != "" {
		t.Errorf("Episodes mismatch (-want +got):\n%s", diff)
	}

	if !pivot.Present[0][0] || !pivot.Present[0][1] || !pivot.Present[1][0] {
		t.Errorf("Present = %v, expected marked cells", pivot.Present)
	}
	if pivot.Present[1][1] {
		t.Error("Present marks a cell season 3 never aired")
	}
	if pivot.Ratings[1][0] != 7.0 {
		t.Errorf("Ratings[1][0] = %v, want 7.0", pivot.Ratings[1][0])
	}
}

func TestBuildReport(t *testing.T) {
	if BuildReport(nil) != nil {
		t.Error("BuildReport(nil) != nil, want nil for empty dataset")
	}

	episodes := []scraper.Episode{
		ep(1, 1, 8, 1000),
		ep(1, 2, 9, 3000),
	}
	report := BuildReport(episodes)
	if report == nil {
		t.Fatal("BuildReport returned nil")
	}
	if report.Ratings.Mean != 8.5 {
		t.Errorf("Ratings.Mean = %v, want 8.5", report.Ratings.Mean)
	}
	if report.Votes.Mean != 2000 {
		t.Errorf("Votes.Mean = %v, want 2000", report.Votes.Mean)
	}
	if len(report.Top) != 2 || report.Top[0].EpisodeNumber != 2 {
		t.Errorf("Top = %+v", report.Top)
	}
}

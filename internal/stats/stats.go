// Package stats derives the summary figures the frontend renders from a
// scraped episode dataset: per-season averages, rating distribution,
// top/bottom tables, summary statistics and the season-by-episode rating
// matrix. Keeping the math here leaves the presentation layer with nothing
// to compute.
package stats

import (
	"math"
	"sort"

	"github.com/episcope/episcope/internal/scraper"
)

// DefaultHistogramBins matches the bin count used by the ratings
// distribution chart.
const DefaultHistogramBins = 20

// SeasonAverage is the mean episode rating for one season.
type SeasonAverage struct {
	Season        int     `json:"season"`
	AverageRating float64 `json:"average_rating"`
	EpisodeCount  int     `json:"episode_count"`
}

// Bin is one histogram bucket over [Low, High).
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Summary holds the descriptive statistics shown in the quick-stats view.
// StdDev is the sample standard deviation.
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Range  float64 `json:"range"`
}

// Pivot is the season-by-episode rating matrix behind the heatmap. Ratings
// and Present are indexed [season row][episode column]; Present marks cells
// that hold a real rating, since not every season has every episode number.
type Pivot struct {
	Seasons  []int       `json:"seasons"`
	Episodes []int       `json:"episodes"`
	Ratings  [][]float64 `json:"ratings"`
	Present  [][]bool    `json:"present"`
}

// Report bundles every derived figure for one scrape session.
type Report struct {
	SeasonAverages []SeasonAverage   `json:"season_averages"`
	Histogram      []Bin             `json:"histogram"`
	Top            []scraper.Episode `json:"top"`
	Bottom         []scraper.Episode `json:"bottom"`
	Ratings        Summary           `json:"ratings"`
	Votes          Summary           `json:"votes"`
	Pivot          Pivot             `json:"pivot"`
}

// BuildReport computes the full derived-figures bundle for a dataset.
// A nil report is returned for an empty dataset.
func BuildReport(episodes []scraper.Episode) *Report {
	if len(episodes) == 0 {
		return nil
	}

	ratings := make([]float64, len(episodes))
	votes := make([]float64, len(episodes))
	for i, ep := range episodes {
		ratings[i] = ep.RatingValue
		votes[i] = ep.Votes
	}

	return &Report{
		SeasonAverages: SeasonAverages(episodes),
		Histogram:      Histogram(ratings, DefaultHistogramBins),
		Top:            TopN(episodes, 10),
		Bottom:         BottomN(episodes, 10),
		Ratings:        Summarize(ratings),
		Votes:          Summarize(votes),
		Pivot:          RatingPivot(episodes),
	}
}

// SeasonAverages computes the mean rating per season, ordered by season.
func SeasonAverages(episodes []scraper.Episode) []SeasonAverage {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, ep := range episodes {
		sums[ep.Season] += ep.RatingValue
		counts[ep.Season]++
	}

	seasons := make([]int, 0, len(sums))
	for season := range sums {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)

	averages := make([]SeasonAverage, 0, len(seasons))
	for _, season := range seasons {
		averages = append(averages, SeasonAverage{
			Season:        season,
			AverageRating: sums[season] / float64(counts[season]),
			EpisodeCount:  counts[season],
		})
	}
	return averages
}

// Histogram buckets values into equal-width bins spanning the observed
// range. The final bucket is closed on both ends so the maximum
// value lands inside it.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	low, high := values[0], values[0]
	for _, v := range values[1:] {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}

	// All values identical: one bucket holding everything.
	if low == high {
		return []Bin{{Low: low, High: high, Count: len(values)}}
	}

	width := (high - low) / float64(bins)
	result := make([]Bin, bins)
	for i := range result {
		result[i].Low = low + float64(i)*width
		result[i].High = low + float64(i+1)*width
	}

	for _, v := range values {
		idx := int((v - low) / width)
		if idx >= bins {
			idx = bins - 1
		}
		result[idx].Count++
	}
	return result
}

// TopN returns the n highest-rated episodes, best first. Ties keep their
// extraction order.
func TopN(episodes []scraper.Episode, n int) []scraper.Episode {
	return rankedN(episodes, n, func(a, b scraper.Episode) bool {
		return a.RatingValue > b.RatingValue
	})
}

// BottomN returns the n lowest-rated episodes, worst first. Ties keep
// their extraction order.
func BottomN(episodes []scraper.Episode, n int) []scraper.Episode {
	return rankedN(episodes, n, func(a, b scraper.Episode) bool {
		return a.RatingValue < b.RatingValue
	})
}

func rankedN(episodes []scraper.Episode, n int, less func(a, b scraper.Episode) bool) []scraper.Episode {
	ranked := make([]scraper.Episode, len(episodes))
	copy(ranked, episodes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Summarize computes mean, sample standard deviation, median and range.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	var sum float64
	low, high := values[0], values[0]
	for _, v := range values {
		sum += v
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	mean := sum / float64(len(values))

	var variance float64
	if len(values) > 1 {
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(values) - 1)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return Summary{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Median: median,
		Range:  high - low,
	}
}

// RatingPivot builds the season-by-episode rating matrix for the heatmap.
func RatingPivot(episodes []scraper.Episode) Pivot {
	if len(episodes) == 0 {
		return Pivot{}
	}

	seasonSet := make(map[int]bool)
	maxEpisode := 0
	for _, ep := range episodes {
		seasonSet[ep.Season] = true
		if ep.EpisodeNumber > maxEpisode {
			maxEpisode = ep.EpisodeNumber
		}
	}

	seasons := make([]int, 0, len(seasonSet))
	for season := range seasonSet {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)

	rowIndex := make(map[int]int, len(seasons))
	for i, season := range seasons {
		rowIndex[season] = i
	}

	episodeNumbers := make([]int, maxEpisode)
	for i := range episodeNumbers {
		episodeNumbers[i] = i + 1
	}

	ratings := make([][]float64, len(seasons))
	present := make([][]bool, len(seasons))
	for i := range ratings {
		ratings[i] = make([]float64, maxEpisode)
		present[i] = make([]bool, maxEpisode)
	}

	for _, ep := range episodes {
		row := rowIndex[ep.Season]
		col := ep.EpisodeNumber - 1
		if col < 0 || col >= maxEpisode {
			continue
		}
		ratings[row][col] = ep.RatingValue
		present[row][col] = true
	}

	return Pivot{
		Seasons:  seasons,
		Episodes: episodeNumbers,
		Ratings:  ratings,
		Present:  present,
	}
}

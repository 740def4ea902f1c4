package ranking

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/elonfeng/podrank/pkg/platform"
)

// Columns returns the output header. Column presence and order are a stable
// contract for downstream consumers: rank and identity first, the composite
// and its four components, the aggregates, then each platform's raw metric
// followed by the adjusted figures for platforms with a coefficient other
// than 1.
func Columns(mult Multipliers) []string {
	cols := []string{
		"rank", "show_name", "composite_score", "genre", "country",
		"consumption_score", "platform_reach_score", "platform_count_score", "genre_rank_score",
		"total_consumption", "platforms_present",
	}
	for _, p := range platform.All() {
		cols = append(cols, platform.MetricName(p))
	}
	for _, p := range platform.All() {
		if mult.For(p) != 1 {
			cols = append(cols, platform.MetricName(p)+"_adjusted")
		}
	}
	return cols
}

// WriteCSV emits the ranked leaderboard in the stable column layout.
func WriteCSV(w io.Writer, shows []*Show, mult Multipliers) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(mult)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range shows {
		row := []string{
			strconv.Itoa(s.Rank),
			s.Key,
			formatScore(s.CompositeScore),
			s.Genre,
			s.Country,
			formatScore(s.ConsumptionScore),
			formatScore(s.ReachScore),
			formatScore(s.PlatformCountScore),
			formatScore(s.GenreScore),
			formatMetric(s.TotalConsumption),
			strconv.Itoa(s.PlatformsPresent),
		}
		for _, p := range platform.All() {
			row = append(row, formatMetric(s.RawMetrics[p]))
		}
		for _, p := range platform.All() {
			if mult.For(p) != 1 {
				row = append(row, formatMetric(s.Metrics[p]))
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write rank %d: %w", s.Rank, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the leaderboard to path, truncating any previous run.
func WriteCSVFile(path string, shows []*Show, mult Multipliers) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, shows, mult); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

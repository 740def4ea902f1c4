package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/elonfeng/podrank/internal/config"
	"github.com/elonfeng/podrank/internal/store"
	"github.com/elonfeng/podrank/pkg/attribute"
	"github.com/elonfeng/podrank/pkg/normalize"
	"github.com/elonfeng/podrank/pkg/platform"
	"github.com/elonfeng/podrank/pkg/ranking"
	"github.com/elonfeng/podrank/pkg/research"
	"github.com/elonfeng/podrank/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildNormalizer(cfg *config.Config) *normalize.Normalizer {
	return normalize.New(normalize.Variant(cfg.Normalize.Variant))
}

func buildLoaders(cfg *config.Config, norm *normalize.Normalizer) []platform.Loader {
	var loaders []platform.Loader

	if cfg.Platforms.Spotify.Enabled {
		loaders = append(loaders, platform.NewSpotify(cfg.DataPath(cfg.Platforms.Spotify.File), norm))
	}
	if cfg.Platforms.YouTube.Enabled {
		loaders = append(loaders, platform.NewYouTube(cfg.DataPath(cfg.Platforms.YouTube.File), norm))
	}
	if cfg.Platforms.Amazon.Enabled {
		loaders = append(loaders, platform.NewAmazon(cfg.DataPath(cfg.Platforms.Amazon.File), norm))
	}
	if cfg.Platforms.Apple.Enabled {
		loaders = append(loaders, platform.NewApple(cfg.DataPath(cfg.Platforms.Apple.File), norm))
	}
	if cfg.Platforms.IHeart.Enabled {
		loaders = append(loaders, platform.NewIHeart(cfg.DataPath(cfg.Platforms.IHeart.File), norm))
	}

	return loaders
}

func multipliers(cfg *config.Config) ranking.Multipliers {
	return ranking.Multipliers{
		platform.Spotify: cfg.Platforms.Spotify.Multiplier,
		platform.YouTube: cfg.Platforms.YouTube.Multiplier,
		platform.Amazon:  cfg.Platforms.Amazon.Multiplier,
		platform.Apple:   cfg.Platforms.Apple.Multiplier,
		platform.IHeart:  cfg.Platforms.IHeart.Multiplier,
	}
}

// buildResolver assembles the attribute source cascade: platform-native
// values first, then the configured tables in their listed order. A missing
// table file is skipped with a note, not an error, so the pipeline still
// runs with whatever curated knowledge exists.
func buildResolver(cfg *config.Config, norm *normalize.Normalizer, sets []*platform.RecordSet) *attribute.Resolver {
	sources := attribute.NativeSources(sets)

	priority := attribute.PriorityNative + 1
	for _, t := range cfg.Attributes.GenreTables {
		src, err := attribute.ReadTableFile(cfg.DataPath(t.File), t.Name, attribute.FieldGenre, priority, norm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  genre table %s skipped: %v\n", t.Name, err)
		} else {
			fmt.Fprintf(os.Stderr, "  genre table %s: %d shows\n", t.Name, len(src.Values))
			sources = append(sources, src)
		}
		priority++
	}
	for _, t := range cfg.Attributes.CountryTables {
		src, err := attribute.ReadTableFile(cfg.DataPath(t.File), t.Name, attribute.FieldCountry, priority, norm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  country table %s skipped: %v\n", t.Name, err)
		} else {
			fmt.Fprintf(os.Stderr, "  country table %s: %d shows\n", t.Name, len(src.Values))
			sources = append(sources, src)
		}
		priority++
	}

	return attribute.NewResolver(sources)
}

func runRank(output string, show int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	norm := buildNormalizer(cfg)
	loaders := buildLoaders(cfg, norm)
	if len(loaders) == 0 {
		return fmt.Errorf("no platforms enabled")
	}

	fmt.Fprintln(os.Stderr, "loading platform data...")
	sets := platform.LoadAll(loaders)
	if len(sets) == 0 {
		return fmt.Errorf("no platform data loaded")
	}

	shows, report := ranking.Merge(sets, multipliers(cfg))
	for p, n := range report.Duplicates {
		fmt.Fprintf(os.Stderr, "  %s: %d duplicate titles aggregated\n", p, n)
	}
	if report.DroppedEmptyKey > 0 {
		fmt.Fprintf(os.Stderr, "  %d rows dropped (title normalized to nothing)\n", report.DroppedEmptyKey)
	}
	if report.DroppedZero > 0 {
		fmt.Fprintf(os.Stderr, "  %d shows dropped (zero on every platform)\n", report.DroppedZero)
	}
	if len(report.SuspectKeys) > 0 {
		fmt.Fprintf(os.Stderr, "  warning: %d keys merged 3+ distinct titles, review: %s\n",
			len(report.SuspectKeys), strings.Join(report.SuspectKeys, ", "))
	}
	fmt.Fprintf(os.Stderr, "merged: %d shows across %d platforms\n", len(shows), len(sets))

	fmt.Fprintln(os.Stderr, "resolving attributes...")
	ranking.Classify(shows, buildResolver(cfg, norm, sets))

	scorer := ranking.NewScorer(ranking.Weights{
		Consumption:   cfg.Scoring.ConsumptionWeight,
		Reach:         cfg.Scoring.ReachWeight,
		PlatformCount: cfg.Scoring.PlatformCountWeight,
		Genre:         cfg.Scoring.GenreWeight,
	})
	scorer.Score(shows)

	if output == "" {
		output = cfg.Output.Path
	}
	if err := ranking.WriteCSVFile(output, shows, multipliers(cfg)); err != nil {
		return fmt.Errorf("write leaderboard: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d ranked shows to %s\n", len(shows), output)

	// The CSV is the canonical output; a store failure only costs history.
	if db, err := store.New(cfg.Database.Path); err != nil {
		fmt.Fprintf(os.Stderr, "store open error (run not recorded): %v\n", err)
	} else {
		defer db.Close()
		if runID, err := db.SaveRun(context.Background(), shows); err != nil {
			fmt.Fprintf(os.Stderr, "store save error (run not recorded): %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "recorded as run %d\n", runID)
		}
	}

	printLeaderboard(shows, show)
	return nil
}

func printLeaderboard(shows []*ranking.Show, limit int) {
	if limit <= 0 || limit > len(shows) {
		limit = len(shows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tGENRE\tCOUNTRY\tPLATFORMS\tTOTAL\tSHOW")
	for _, s := range shows[:limit] {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%d\t%.0f\t%s\n",
			s.Rank, s.CompositeScore, s.Genre, s.Country,
			s.PlatformsPresent, s.TotalConsumption, s.Key)
	}
	w.Flush()
}

func runTop(jsonOutput bool, runID int64, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if runID == 0 {
		latest, err := db.LatestRun(ctx)
		if err != nil {
			return fmt.Errorf("latest run: %w", err)
		}
		if latest == nil {
			fmt.Println("no runs recorded (build one first: podrank rank)")
			return nil
		}
		runID = latest.ID
	}

	entries, err := db.ListEntries(ctx, runID, limit)
	if err != nil {
		return fmt.Errorf("list rankings: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSCORE\tGENRE\tCOUNTRY\tPLATFORMS\tSHOW")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%d\t%s\n",
			e.Rank, e.CompositeScore, e.Genre, e.Country, e.PlatformsPresent, e.ShowKey)
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, port)
	return srv.ListenAndServe()
}

func runResearch() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	norm := buildNormalizer(cfg)
	r := research.New(norm)

	f, err := os.Open(cfg.DataPath(cfg.Research.FeedsFile))
	if err != nil {
		return fmt.Errorf("open feed list: %w", err)
	}
	feeds, err := r.ReadFeedList(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read feed list: %w", err)
	}
	if len(feeds) == 0 {
		return fmt.Errorf("feed list is empty")
	}

	fmt.Fprintf(os.Stderr, "researching %d feeds...\n", len(feeds))
	results := r.Research(context.Background(), feeds)
	fmt.Fprintf(os.Stderr, "  %d/%d feeds answered\n", len(results), len(feeds))

	if err := writeResearchTable(cfg.DataPath(cfg.Research.GenreOutput), research.GenreTable(results), "feed itunes category"); err != nil {
		return err
	}
	if err := writeResearchTable(cfg.DataPath(cfg.Research.CountryOutput), research.CountryTable(results), "feed language region"); err != nil {
		return err
	}
	return nil
}

func writeResearchTable(path string, values map[string]string, note string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := research.WriteTable(f, values, note); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "  wrote %d entries to %s\n", len(values), path)
	return f.Close()
}

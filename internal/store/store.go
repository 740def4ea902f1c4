package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/elonfeng/podrank/pkg/platform"
	"github.com/elonfeng/podrank/pkg/ranking"
)

// Run is one recorded ranking pass.
type Run struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ShowCount int       `db:"show_count" json:"show_count"`
}

// Entry is one leaderboard row of a run. Per-platform metrics are stored as
// JSON maps keyed by platform name.
type Entry struct {
	ID               int64   `db:"id" json:"id"`
	RunID            int64   `db:"run_id" json:"run_id"`
	Rank             int     `db:"show_rank" json:"rank"`
	ShowKey          string  `db:"show_key" json:"show_key"`
	CompositeScore   float64 `db:"composite_score" json:"composite_score"`
	Genre            string  `db:"genre" json:"genre"`
	Country          string  `db:"country" json:"country"`
	ConsumptionScore float64 `db:"consumption_score" json:"consumption_score"`
	ReachScore       float64 `db:"reach_score" json:"reach_score"`
	CountScore       float64 `db:"count_score" json:"count_score"`
	GenreScore       float64 `db:"genre_score" json:"genre_score"`
	TotalConsumption float64 `db:"total_consumption" json:"total_consumption"`
	PlatformsPresent int     `db:"platforms_present" json:"platforms_present"`

	RawMetricsJSON string             `db:"raw_metrics" json:"-"`
	MetricsJSON    string             `db:"metrics" json:"-"`
	RawMetrics     map[string]float64 `db:"-" json:"raw_metrics"`
	Metrics        map[string]float64 `db:"-" json:"metrics"`
}

// Store is the persistence interface.
type Store interface {
	SaveRun(ctx context.Context, shows []*ranking.Show) (int64, error)
	LatestRun(ctx context.Context) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListEntries(ctx context.Context, runID int64, limit int) ([]Entry, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun records a ranked leaderboard as a new run and returns its ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, shows []*ranking.Show) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO runs (created_at, show_count) VALUES (?, ?)",
		time.Now().UTC(), len(shows))
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, show := range shows {
		rawJSON, _ := json.Marshal(metricsByName(show.RawMetrics))
		adjJSON, _ := json.Marshal(metricsByName(show.Metrics))

		_, err := tx.ExecContext(ctx, `
			INSERT INTO rankings (run_id, show_rank, show_key, composite_score, genre, country,
				consumption_score, reach_score, count_score, genre_score,
				total_consumption, platforms_present, raw_metrics, metrics)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, show.Rank, show.Key, show.CompositeScore, show.Genre, show.Country,
			show.ConsumptionScore, show.ReachScore, show.PlatformCountScore, show.GenreScore,
			show.TotalConsumption, show.PlatformsPresent, string(rawJSON), string(adjJSON))
		if err != nil {
			return 0, fmt.Errorf("insert ranking %s: %w", show.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recent run, or nil if none exist.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY created_at DESC, id DESC LIMIT 1")
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, runID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []Entry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM rankings WHERE run_id = ? ORDER BY show_rank LIMIT ?", runID, limit)
	if err != nil {
		return nil, fmt.Errorf("list rankings for run %d: %w", runID, err)
	}

	for i := range entries {
		json.Unmarshal([]byte(entries[i].RawMetricsJSON), &entries[i].RawMetrics)
		json.Unmarshal([]byte(entries[i].MetricsJSON), &entries[i].Metrics)
	}
	return entries, nil
}

func metricsByName(m map[platform.Platform]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for p, v := range m {
		out[string(p)] = v
	}
	return out
}

package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at DATETIME NOT NULL,
    show_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS rankings (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id            INTEGER NOT NULL REFERENCES runs(id),
    show_rank         INTEGER NOT NULL,
    show_key          TEXT NOT NULL,
    composite_score   REAL NOT NULL DEFAULT 0,
    genre             TEXT NOT NULL DEFAULT 'Other',
    country           TEXT NOT NULL DEFAULT 'Unknown',
    consumption_score REAL NOT NULL DEFAULT 0,
    reach_score       REAL NOT NULL DEFAULT 0,
    count_score       REAL NOT NULL DEFAULT 0,
    genre_score       REAL NOT NULL DEFAULT 0,
    total_consumption REAL NOT NULL DEFAULT 0,
    platforms_present INTEGER NOT NULL DEFAULT 0,
    raw_metrics       TEXT NOT NULL DEFAULT '{}',
    metrics           TEXT NOT NULL DEFAULT '{}',
    UNIQUE(run_id, show_key)
);

CREATE INDEX IF NOT EXISTS idx_rankings_run ON rankings(run_id);
CREATE INDEX IF NOT EXISTS idx_rankings_rank ON rankings(run_id, show_rank);
`

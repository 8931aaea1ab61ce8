package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one row per feed run
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			vocabulary TEXT NOT NULL,
			settings TEXT NOT NULL,
			sequence_dir TEXT NOT NULL,
			association_file TEXT NOT NULL,
			frames_total INTEGER NOT NULL DEFAULT 0,
			frames_ingested INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL DEFAULT '',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		)`,

		// Frame log table - per-frame ingest timing for a run
		`CREATE TABLE IF NOT EXISTS frame_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			timestamp REAL NOT NULL,
			ingest_ms REAL NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_frame_log_run_id ON frame_log(run_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

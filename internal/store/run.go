package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Run represents one feed run stored in the database.
type Run struct {
	ID              string
	Vocabulary      string
	Settings        string
	SequenceDir     string
	AssociationFile string
	FramesTotal     int64
	FramesIngested  int64
	Outcome         string
	StartedAt       time.Time
	FinishedAt      sql.NullTime
}

// RunRepository provides CRUD operations for runs and their frame logs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new run into the database. A missing ID is filled
// with a fresh UUID.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO runs (id, vocabulary, settings, sequence_dir, association_file, frames_total, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Vocabulary, run.Settings, run.SequenceDir, run.AssociationFile, run.FramesTotal, run.StartedAt,
	)
	return err
}

// Finish records the outcome of a run.
func (r *RunRepository) Finish(id string, framesIngested int64, outcome string) error {
	res, err := r.db.Exec(
		`UPDATE runs SET frames_ingested = ?, outcome = ?, finished_at = ? WHERE id = ?`,
		framesIngested, outcome, time.Now(), id,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run := &Run{}

	err := r.db.QueryRow(
		`SELECT id, vocabulary, settings, sequence_dir, association_file,
		        frames_total, frames_ingested, outcome, started_at, finished_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.Vocabulary, &run.Settings, &run.SequenceDir, &run.AssociationFile,
		&run.FramesTotal, &run.FramesIngested, &run.Outcome, &run.StartedAt, &run.FinishedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return run, nil
}

// List returns all runs, most recent first.
func (r *RunRepository) List() ([]Run, error) {
	rows, err := r.db.Query(
		`SELECT id, vocabulary, settings, sequence_dir, association_file,
		        frames_total, frames_ingested, outcome, started_at, finished_at
		 FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Vocabulary, &run.Settings, &run.SequenceDir, &run.AssociationFile,
			&run.FramesTotal, &run.FramesIngested, &run.Outcome, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LogFrame appends one frame ingest record to a run's frame log.
func (r *RunRepository) LogFrame(runID string, timestamp, ingestMs float64) error {
	_, err := r.db.Exec(
		`INSERT INTO frame_log (run_id, timestamp, ingest_ms) VALUES (?, ?, ?)`,
		runID, timestamp, ingestMs,
	)
	return err
}

// FrameLogCount returns the number of logged frames for a run.
func (r *RunRepository) FrameLogCount(runID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM frame_log WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

// FrameRecorder adapts a run's frame log to the per-frame logging
// interface the harness accepts.
type FrameRecorder struct {
	runs  *RunRepository
	runID string
}

// Recorder returns a FrameRecorder bound to the given run.
func (r *RunRepository) Recorder(runID string) *FrameRecorder {
	return &FrameRecorder{runs: r, runID: runID}
}

// LogFrame records one ingested frame and how long the engine took.
func (fr *FrameRecorder) LogFrame(timestamp float64, ingestDuration time.Duration) error {
	return fr.runs.LogFrame(fr.runID, timestamp, float64(ingestDuration.Microseconds())/1000.0)
}

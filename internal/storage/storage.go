// Package storage archives completed runs: metadata and events in a sqlite
// database, full telemetry as per-run CSV files alongside it.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/hexsim/internal/failure"
	"github.com/san-kum/hexsim/internal/session"
)

// Store handles run archive operations. The database is opened lazily on
// first use.
type Store struct {
	dataDir string

	db     *sql.DB
	dbOnce sync.Once
	dbErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a store rooted at dataDir. Nothing is touched on disk until
// the first write.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) getDB() (*sql.DB, error) {
	s.dbOnce.Do(func() {
		if err := os.MkdirAll(s.dataDir, 0755); err != nil {
			s.dbErr = fmt.Errorf("creating data dir: %w", err)
			return
		}

		dbPath := filepath.Join(s.dataDir, "runs.db")
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.dbErr = fmt.Errorf("opening database: %w", err)
			return
		}

		if _, err := db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.dbErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.db = db
	})

	return s.db, s.dbErr
}

// Close releases the database connection.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

func closeWithError(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// SaveRun archives a completed run: one row in runs, one per event, and the
// telemetry CSV next to the database.
func (s *Store) SaveRun(ctx context.Context, run *session.Run) (err error) {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	var metricsJSON, physicsJSON []byte
	switch {
	case run.Metrics != nil:
		if metricsJSON, err = json.Marshal(run.Metrics); err != nil {
			return fmt.Errorf("marshaling metrics: %w", err)
		}
	case run.DroneMetrics != nil:
		if metricsJSON, err = json.Marshal(run.DroneMetrics); err != nil {
			return fmt.Errorf("marshaling metrics: %w", err)
		}
	}
	switch {
	case run.Physics != nil:
		if physicsJSON, err = json.Marshal(run.Physics); err != nil {
			return fmt.Errorf("marshaling physics: %w", err)
		}
	case run.DronePhysics != nil:
		if physicsJSON, err = json.Marshal(run.DronePhysics); err != nil {
			return fmt.Errorf("marshaling physics: %w", err)
		}
	}

	frameCount := len(run.Frames)
	if frameCount == 0 {
		frameCount = len(run.DroneFrames)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertRunSQL,
		run.RunID, run.SessionID, run.RobotType, string(run.Status),
		run.StartedAt, run.DurationS, frameCount,
		string(physicsJSON), string(metricsJSON)); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertEventSQL)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer closeWithError(stmt, &err)

	for _, e := range run.Events {
		if _, err = stmt.ExecContext(ctx, run.RunID, e.TimestampMS, string(e.Type), string(e.Severity), e.Message); err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}

	return s.writeTelemetry(run)
}

func (s *Store) writeTelemetry(run *session.Run) (err error) {
	path := filepath.Join(s.dataDir, run.RunID+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating telemetry file: %w", err)
	}
	defer closeWithError(f, &err)

	if len(run.DroneFrames) > 0 {
		return WriteDroneCSV(f, run.DroneFrames)
	}
	return WriteCSV(f, run.Frames)
}

// RunMeta is one archived run row.
type RunMeta struct {
	RunID      string
	SessionID  string
	RobotType  string
	Status     string
	StartedAt  time.Time
	DurationS  float64
	FrameCount int
	Physics    string
	Metrics    string
}

// ListRuns returns archived runs, newest first. A store that has never been
// written lists no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunMeta, error) {
	if _, err := os.Stat(filepath.Join(s.dataDir, "runs.db")); errors.Is(err, os.ErrNotExist) {
		return []RunMeta{}, nil
	}

	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMeta, 0)
	for rows.Next() {
		var m RunMeta
		if err := rows.Scan(&m.RunID, &m.SessionID, &m.RobotType, &m.Status, &m.StartedAt,
			&m.DurationS, &m.FrameCount, &m.Physics, &m.Metrics); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}

// LoadRun fetches one archived run by id.
func (s *Store) LoadRun(ctx context.Context, runID string) (*RunMeta, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var m RunMeta
	err = db.QueryRowContext(ctx, selectRunSQL, runID).Scan(
		&m.RunID, &m.SessionID, &m.RobotType, &m.Status, &m.StartedAt,
		&m.DurationS, &m.FrameCount, &m.Physics, &m.Metrics)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	return &m, nil
}

// LoadEvents fetches the archived events of a run in generation order.
func (s *Store) LoadEvents(ctx context.Context, runID string) ([]failure.Event, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectEventsSQL, runID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := make([]failure.Event, 0)
	for rows.Next() {
		var e failure.Event
		var typ, sev string
		if err := rows.Scan(&e.TimestampMS, &typ, &sev, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Type = failure.EventType(typ)
		e.Severity = failure.Severity(sev)
		events = append(events, e)
	}
	return events, rows.Err()
}

// TelemetryPath returns the CSV file for a run's full telemetry.
func (s *Store) TelemetryPath(runID string) string {
	return filepath.Join(s.dataDir, runID+".csv")
}

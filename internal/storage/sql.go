package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id       TEXT PRIMARY KEY,
    session_id   TEXT NOT NULL,
    robot_type   TEXT NOT NULL,
    status       TEXT NOT NULL,
    started_at   TIMESTAMP NOT NULL,
    duration_s   REAL NOT NULL,
    frame_count  INTEGER NOT NULL,
    physics      TEXT,
    metrics      TEXT
);

CREATE TABLE IF NOT EXISTS events (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL REFERENCES runs(run_id),
    timestamp_ms REAL NOT NULL,
    type         TEXT NOT NULL,
    severity     TEXT NOT NULL,
    message      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
`

const (
	insertRunSQL = `
INSERT INTO runs (run_id,
                  session_id,
                  robot_type,
                  status,
                  started_at,
                  duration_s,
                  frame_count,
                  physics,
                  metrics)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertEventSQL = `
INSERT INTO events (run_id,
                    timestamp_ms,
                    type,
                    severity,
                    message)
VALUES (?, ?, ?, ?, ?)`

	selectRunsSQL = `
SELECT
    run_id,
    session_id,
    robot_type,
    status,
    started_at,
    duration_s,
    frame_count,
    physics,
    metrics
FROM runs
ORDER BY started_at DESC`

	selectRunSQL = `
SELECT
    run_id,
    session_id,
    robot_type,
    status,
    started_at,
    duration_s,
    frame_count,
    physics,
    metrics
FROM runs
WHERE
    run_id = ?`

	selectEventsSQL = `
SELECT
    timestamp_ms,
    type,
    severity,
    message
FROM events
WHERE
    run_id = ?
ORDER BY id`
)

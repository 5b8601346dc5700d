package jobs

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore is a durable Store backed by a single-file sqlite database,
// migrated on open the same way the tracking pipeline's database migrates
// on open: an embedded migrations filesystem applied via golang-migrate's
// iofs source driver.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (creating if absent) the sqlite database at path and
// applies any pending migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "open sqlite job store")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "set wal mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "set busy timeout")
	}

	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.Internal, err, "sub migrations fs")
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.Internal, err, "build iofs source driver")
	}
	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "build sqlite migrate driver")
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.Internal, err, "build migrate instance")
	}
	// Note: m is not closed here; Close() on the sqlite driver would close
	// the shared *sql.DB, which SQLiteStore manages separately.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, tacticserr.Wrap(tacticserr.Internal, err, "apply job store migrations")
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeMetadata(metadata map[string]string) (sql.NullString, error) {
	if len(metadata) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeMetadata(raw sql.NullString) (map[string]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseNullTime(raw sql.NullString) (time.Time, error) {
	if !raw.Valid || raw.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw.String)
}

// Put inserts or replaces the row for job.JobID.
func (s *SQLiteStore) Put(job *Job) error {
	if job == nil {
		return tacticserr.New(tacticserr.BadInput, "cannot store a nil job")
	}
	var resultContent sql.NullString
	var resultDuration sql.NullFloat64
	var resultMetadata sql.NullString
	if job.Result != nil {
		resultContent = sql.NullString{String: job.Result.Content, Valid: true}
		resultDuration = sql.NullFloat64{Float64: job.Result.DurationSeconds, Valid: true}
		meta, err := encodeMetadata(job.Result.Metadata)
		if err != nil {
			return tacticserr.Wrap(tacticserr.Internal, err, "encode job result metadata")
		}
		resultMetadata = meta
	}

	_, err := s.db.Exec(`
		INSERT INTO jobs (job_id, kind, match_id, queue, idempotency_key, status,
			result_content, result_duration, result_metadata, error_message,
			created_at, started_at, completed_at, attempt, max_attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			status = excluded.status,
			result_content = excluded.result_content,
			result_duration = excluded.result_duration,
			result_metadata = excluded.result_metadata,
			error_message = excluded.error_message,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			attempt = excluded.attempt,
			max_attempts = excluded.max_attempts
	`,
		job.JobID, job.Kind, job.MatchID, string(job.Queue), job.IdempotencyKey, string(job.Status),
		resultContent, resultDuration, resultMetadata, nullableString(job.Err),
		nullTime(job.CreatedAt), nullTime(job.StartedAt), nullTime(job.CompletedAt),
		job.Attempt, job.MaxAttempts,
	)
	if err != nil {
		return tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "put job")
	}
	return nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (s *SQLiteStore) scanJob(row scanner) (*Job, error) {
	var job Job
	var queue, status string
	var resultContent, resultMetadata, errMsg sql.NullString
	var resultDuration sql.NullFloat64
	var createdAt, startedAt, completedAt sql.NullString

	err := row.Scan(&job.JobID, &job.Kind, &job.MatchID, &queue, &job.IdempotencyKey, &status,
		&resultContent, &resultDuration, &resultMetadata, &errMsg,
		&createdAt, &startedAt, &completedAt, &job.Attempt, &job.MaxAttempts)
	if err != nil {
		return nil, err
	}
	job.Queue = Queue(queue)
	job.Status = Status(status)
	job.Err = errMsg.String

	if job.CreatedAt, err = parseNullTime(createdAt); err != nil {
		return nil, err
	}
	if job.StartedAt, err = parseNullTime(startedAt); err != nil {
		return nil, err
	}
	if job.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}

	if resultContent.Valid {
		metadata, err := decodeMetadata(resultMetadata)
		if err != nil {
			return nil, err
		}
		job.Result = &Result{
			Content:         resultContent.String,
			DurationSeconds: resultDuration.Float64,
			Metadata:        metadata,
		}
	}
	return &job, nil
}

type scanner interface {
	Scan(dest ...any) error
}

const jobColumns = `job_id, kind, match_id, queue, idempotency_key, status,
	result_content, result_duration, result_metadata, error_message,
	created_at, started_at, completed_at, attempt, max_attempts`

// Get returns the stored job by ID.
func (s *SQLiteStore) Get(jobID string) (*Job, error) {
	row := s.db.QueryRow(fmt.Sprintf("SELECT %s FROM jobs WHERE job_id = ?", jobColumns), jobID)
	job, err := s.scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tacticserr.Newf(tacticserr.NotFound, "job %s not found", jobID)
	}
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "get job")
	}
	return job, nil
}

// FindByIdempotencyKey returns the job, if any, created under (kind, idempotencyKey).
func (s *SQLiteStore) FindByIdempotencyKey(kind, idempotencyKey string) (*Job, bool) {
	row := s.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM jobs WHERE kind = ? AND idempotency_key = ?", jobColumns),
		kind, idempotencyKey)
	job, err := s.scanJob(row)
	if err != nil {
		return nil, false
	}
	return job, true
}

// List returns every job recorded for matchID.
func (s *SQLiteStore) List(matchID string) ([]*Job, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT %s FROM jobs WHERE match_id = ?", jobColumns), matchID)
	if err != nil {
		return nil, tacticserr.Wrap(tacticserr.UpstreamUnavailable, err, "list jobs")
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		job, err := s.scanJob(rows)
		if err != nil {
			return nil, tacticserr.Wrap(tacticserr.Internal, err, "scan job row")
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

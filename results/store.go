package results

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/teranos/gridsense/db"
	"github.com/teranos/gridsense/errors"
)

// Store persists records to the runs table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps a migrated database.
func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn, now: time.Now}
}

// BatchInfo describes one stored batch.
type BatchInfo struct {
	ID        string    `json:"id"`
	Runs      int       `json:"runs"`
	Agents    int       `json:"agents"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

// Save inserts records in one transaction. Records without a RunID get one.
func (s *Store) Save(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap(err, "begin save")
	}

	const q = `INSERT INTO runs (
		id, batch_id, agent, width, height, probability, solved, runtime_seconds,
		trajectory_length, cells_expanded, bumps, plans, cells_determined, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	created := s.now().UTC()
	for i := range records {
		r := &records[i]
		if r.RunID == "" {
			r.RunID = uuid.NewString()
		}
		var trajectory sql.NullFloat64
		if !math.IsNaN(r.TrajectoryLength) {
			trajectory = sql.NullFloat64{Float64: r.TrajectoryLength, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, q,
			r.RunID, r.BatchID, r.Agent, r.Width, r.Height, r.Probability, r.Solved, r.RuntimeSeconds,
			trajectory, r.CellsExpanded, r.Bumps, r.Plans, r.CellsDetermined, created,
		); err != nil {
			tx.Rollback()
			return s.wrap(err, "insert run %s", r.RunID)
		}
	}
	return s.wrap(tx.Commit(), "commit %d runs", len(records))
}

// List returns a batch's records in insertion order.
func (s *Store) List(ctx context.Context, batchID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, agent, width, height, probability, solved, runtime_seconds,
		       trajectory_length, cells_expanded, bumps, plans, cells_determined
		FROM runs WHERE batch_id = ? ORDER BY rowid`, batchID)
	if err != nil {
		return nil, s.wrap(err, "query batch %s", batchID)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r          Record
			trajectory sql.NullFloat64
		)
		if err := rows.Scan(&r.RunID, &r.BatchID, &r.Agent, &r.Width, &r.Height, &r.Probability, &r.Solved,
			&r.RuntimeSeconds, &trajectory, &r.CellsExpanded, &r.Bumps, &r.Plans, &r.CellsDetermined); err != nil {
			return nil, s.wrap(err, "scan run")
		}
		r.TrajectoryLength = math.NaN()
		if trajectory.Valid {
			r.TrajectoryLength = trajectory.Float64
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(err, "iterate batch %s", batchID)
	}
	if len(out) == 0 {
		return nil, errors.NewNotFoundError("batch %s", batchID)
	}
	return out, nil
}

// Batches lists stored batches, newest first.
func (s *Store) Batches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, COUNT(*), COUNT(DISTINCT agent), MAX(width), MAX(height), MIN(created_at)
		FROM runs GROUP BY batch_id ORDER BY MIN(created_at) DESC, batch_id`)
	if err != nil {
		return nil, s.wrap(err, "query batches")
	}
	defer rows.Close()

	var out []BatchInfo
	for rows.Next() {
		var (
			b       BatchInfo
			created string
		)
		if err := rows.Scan(&b.ID, &b.Runs, &b.Agents, &b.Width, &b.Height, &created); err != nil {
			return nil, s.wrap(err, "scan batch")
		}
		b.CreatedAt = parseTimestamp(created)
		out = append(out, b)
	}
	return out, s.wrap(rows.Err(), "iterate batches")
}

// parseTimestamp reads a timestamp the driver stored as text. Aggregates lose
// the column's DATETIME type, so the driver hands them back unparsed.
func parseTimestamp(v string) time.Time {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (s *Store) wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if db.IsDatabaseClosed(err) && !errors.Is(err, db.ErrDatabaseClosed) {
		err = errors.Mark(err, db.ErrDatabaseClosed)
	}
	return errors.Wrapf(err, format, args...)
}

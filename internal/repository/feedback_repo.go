package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skinsense-backend/internal/database"
	"skinsense-backend/internal/models"
)

// FeedbackStore owns the feedback table. Rows are only ever inserted.
type FeedbackStore interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context) ([]models.Feedback, error)
	ListNewestFirst(ctx context.Context) ([]models.Feedback, error)
	Count(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}

type dialect struct {
	schema string
	insert string
}

var dialects = map[database.Driver]dialect{
	database.DriverSQLite: {
		schema: `
CREATE TABLE IF NOT EXISTS feedback (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    "timestamp" TIMESTAMP NOT NULL,
    skin_type TEXT NOT NULL,
    confidence REAL NOT NULL,
    user_feedback TEXT,
    helpful TEXT
);

CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback("timestamp");
`,
		insert: `INSERT INTO feedback ("timestamp", skin_type, confidence, user_feedback, helpful)
VALUES (?, ?, ?, ?, ?) RETURNING id`,
	},
	database.DriverPostgres: {
		schema: `
CREATE TABLE IF NOT EXISTS feedback (
    id BIGSERIAL PRIMARY KEY,
    "timestamp" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    skin_type TEXT NOT NULL,
    confidence DOUBLE PRECISION NOT NULL,
    user_feedback TEXT,
    helpful TEXT
);

CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback("timestamp");
`,
		insert: `INSERT INTO feedback ("timestamp", skin_type, confidence, user_feedback, helpful)
VALUES ($1, $2, $3, $4, $5) RETURNING id`,
	},
}

const selectColumns = `SELECT id, "timestamp", skin_type, confidence, user_feedback, helpful FROM feedback`

type SQLFeedbackRepo struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewSQLFeedbackRepo(db *sql.DB, driver database.Driver) (*SQLFeedbackRepo, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: no SQL dialect for %s", database.ErrUnsupportedDSN, driver)
	}
	return &SQLFeedbackRepo{
		db:      db,
		dialect: d,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}, nil
}

// withSession scopes one unit of work to a single pooled connection and
// always returns it to the pool.
func (r *SQLFeedbackRepo) withSession(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// Init creates the feedback table if it is absent. Safe on every startup.
func (r *SQLFeedbackRepo) Init(ctx context.Context) error {
	return r.withSession(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, r.dialect.schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

func (r *SQLFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	ts := r.now()
	return r.withSession(ctx, func(conn *sql.Conn) error {
		var id int64
		err := conn.QueryRowContext(ctx, r.dialect.insert,
			ts, feedback.SkinType, feedback.Confidence, feedback.UserFeedback, feedback.Helpful,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert feedback: %w", err)
		}
		feedback.ID = id
		feedback.Timestamp = ts
		return nil
	})
}

func (r *SQLFeedbackRepo) List(ctx context.Context) ([]models.Feedback, error) {
	return r.query(ctx, selectColumns+` ORDER BY id`)
}

// ListNewestFirst orders by timestamp descending, breaking ties by id.
func (r *SQLFeedbackRepo) ListNewestFirst(ctx context.Context) ([]models.Feedback, error) {
	return r.query(ctx, selectColumns+` ORDER BY "timestamp" DESC, id DESC`)
}

func (r *SQLFeedbackRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.withSession(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

func (r *SQLFeedbackRepo) Close(context.Context) error {
	return r.db.Close()
}

func (r *SQLFeedbackRepo) query(ctx context.Context, q string) ([]models.Feedback, error) {
	out := []models.Feedback{}
	err := r.withSession(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				fb               models.Feedback
				comment, helpful sql.NullString
			)
			if err := rows.Scan(&fb.ID, &fb.Timestamp, &fb.SkinType, &fb.Confidence, &comment, &helpful); err != nil {
				return err
			}
			fb.UserFeedback = comment.String
			fb.Helpful = helpful.String
			out = append(out, fb)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}

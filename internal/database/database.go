package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongodb"
)

// DefaultSQLitePath is used when DATABASE_URL is empty.
const DefaultSQLitePath = "feedback.db"

var ErrUnsupportedDSN = errors.New("unsupported database connection string")

// Target is a parsed DATABASE_URL.
type Target struct {
	Driver Driver
	DSN    string
}

// Parse maps a connection string onto a backend. An empty string selects the
// SQLite file DefaultSQLitePath; a value without a scheme is a SQLite path.
func Parse(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	switch {
	case raw == "":
		return Target{Driver: DriverSQLite, DSN: DefaultSQLitePath}, nil
	case lower == "sqlite://" || lower == "sqlite::memory:":
		return Target{Driver: DriverSQLite, DSN: ":memory:"}, nil
	case strings.HasPrefix(lower, "sqlite:///"):
		// sqlite:///rel.db is relative, sqlite:////abs.db is absolute
		return Target{Driver: DriverSQLite, DSN: raw[len("sqlite:///"):]}, nil
	case strings.HasPrefix(lower, "sqlite://"):
		return Target{Driver: DriverSQLite, DSN: raw[len("sqlite://"):]}, nil
	case strings.HasPrefix(lower, "sqlite:"):
		return Target{Driver: DriverSQLite, DSN: raw[len("sqlite:"):]}, nil
	case strings.HasPrefix(lower, "file:"):
		return Target{Driver: DriverSQLite, DSN: raw}, nil
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return Target{Driver: DriverPostgres, DSN: raw}, nil
	case strings.HasPrefix(lower, "postgresql+"), strings.HasPrefix(lower, "postgres+"):
		// drop an ORM driver suffix such as postgresql+psycopg2://
		idx := strings.Index(raw, "://")
		if idx < 0 {
			return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(raw))
		}
		return Target{Driver: DriverPostgres, DSN: "postgresql" + raw[idx:]}, nil
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return Target{Driver: DriverMongo, DSN: raw}, nil
	case strings.Contains(raw, "://"):
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redact(raw))
	default:
		return Target{Driver: DriverSQLite, DSN: raw}, nil
	}
}

// OpenSQL opens and pings a database/sql pool for a SQLite or Postgres target.
func OpenSQL(ctx context.Context, t Target) (*sql.DB, error) {
	var dsn string
	switch t.Driver {
	case DriverSQLite:
		dsn = sqliteDSN(t.DSN)
	case DriverPostgres:
		dsn = t.DSN
	default:
		return nil, fmt.Errorf("%w: driver %s is not a SQL backend", ErrUnsupportedDSN, t.Driver)
	}

	db, err := sql.Open(string(t.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.Driver, err)
	}
	if t.Driver == DriverSQLite {
		// one writer at a time; an in-memory database also lives on a single connection
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", t.Driver, err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}

// redact hides the password component of a URL-like DSN for error messages.
func redact(raw string) string {
	scheme := strings.Index(raw, "://")
	at := strings.LastIndex(raw, "@")
	if scheme < 0 || at < scheme {
		return raw
	}
	creds := raw[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return raw[:scheme+3] + creds[:colon] + ":***" + raw[at:]
	}
	return raw
}

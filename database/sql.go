package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DefaultSQLitePath is used when DATABASE_URL is not set.
const DefaultSQLitePath = "customer_behavior.db"

// DBClient wraps a database/sql pool together with the driver it was opened with.
type DBClient struct {
	DB     *sql.DB
	Driver string
}

// DriverFor picks the driver for a DATABASE_URL value: postgres URLs use lib/pq,
// anything else is treated as a SQLite path or DSN.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func NewSQLDB(dsn string) (*DBClient, error) {
	if dsn == "" {
		log.Printf("DATABASE_URL not set. Using local SQLite database %s.", DefaultSQLitePath)
		dsn = DefaultSQLitePath
	}
	driver := DriverFor(dsn)
	dsn = strings.TrimPrefix(dsn, "sqlite://")

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening %s connection: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite allows one writer; an in-memory database exists per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database (ping failed): %w", err)
	}

	log.Printf("Successfully connected to %s database!", driver)
	return &DBClient{DB: db, Driver: driver}, nil
}

// Rebind rewrites '?' placeholders into the driver's native form.
func (c *DBClient) Rebind(query string) string {
	if c.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureSchema creates the interaction and pattern tables if they are missing.
func (c *DBClient) EnsureSchema(ctx context.Context) error {
	ddl := sqliteSchema
	if c.Driver == DriverPostgres {
		ddl = postgresSchema
	}
	for _, stmt := range ddl {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (c *DBClient) Close() {
	if c.DB != nil {
		err := c.DB.Close()
		if err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Printf("%s database connection closed.", c.Driver)
		}
	}
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS user_interactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		page TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}',
		timestamp DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_user_id ON user_interactions (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_timestamp ON user_interactions (timestamp)`,
	`CREATE TABLE IF NOT EXISTS behavior_patterns (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		pattern_type TEXT NOT NULL,
		confidence REAL NOT NULL,
		details TEXT NOT NULL,
		detected_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_behavior_patterns_user_id ON behavior_patterns (user_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS user_interactions (
		id UUID PRIMARY KEY,
		user_id VARCHAR(100) NOT NULL,
		action VARCHAR(100) NOT NULL,
		page VARCHAR(200) NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_user_id ON user_interactions (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_timestamp ON user_interactions (timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS behavior_patterns (
		id UUID PRIMARY KEY,
		user_id VARCHAR(100) NOT NULL,
		pattern_type VARCHAR(100) NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		details JSONB NOT NULL,
		detected_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_behavior_patterns_user_id ON behavior_patterns (user_id)`,
}

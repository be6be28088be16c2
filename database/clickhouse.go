package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

// ClickHouseConfig is the native-protocol connection setup.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// ClickHouseConfigFromEnv reads CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT,
// CLICKHOUSE_DB_NAME, CLICKHOUSE_USERNAME and CLICKHOUSE_PASSWORD.
func ClickHouseConfigFromEnv() (ClickHouseConfig, error) {
	cfg := ClickHouseConfig{
		Host:     os.Getenv("CLICKHOUSE_HOST"),
		Database: os.Getenv("CLICKHOUSE_DB_NAME"),
		Username: os.Getenv("CLICKHOUSE_USERNAME"),
		Password: os.Getenv("CLICKHOUSE_PASSWORD"),
	}
	portStr := os.Getenv("CLICKHOUSE_NATIVE_PORT")
	if cfg.Host == "" || portStr == "" || cfg.Database == "" {
		return cfg, fmt.Errorf("CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT, or CLICKHOUSE_DB_NAME environment variables are not set")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return cfg, fmt.Errorf("invalid CLICKHOUSE_NATIVE_PORT: %w", err)
	}
	cfg.Port = port
	return cfg, nil
}

func (cfg ClickHouseConfig) options() *clickhouse.Options {
	return &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "behaviorlytics-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 5 * time.Second,
	}
}

func NewClickHouseDB() (*ClickHouseClient, error) {
	cfg, err := ClickHouseConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return OpenClickHouse(cfg)
}

func OpenClickHouse(cfg ClickHouseConfig) (*ClickHouseClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(cfg.options())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Println("Successfully connected to ClickHouse database via Native TCP!")
	return &ClickHouseClient{Conn: conn}, nil
}

// EnsureSchema creates the interaction_events table if it is missing.
func (c *ClickHouseClient) EnsureSchema(ctx context.Context) error {
	err := c.Conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS interaction_events (
			event_id String,
			user_id String,
			action LowCardinality(String),
			page String,
			metadata String,
			timestamp DateTime64(3, 'UTC')
		)
		ENGINE = MergeTree
		ORDER BY (user_id, timestamp)
	`)
	if err != nil {
		return fmt.Errorf("failed to create interaction_events table: %w", err)
	}
	return nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		log.Println("ClickHouse connection closed.")
	}
}

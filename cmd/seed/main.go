// Command seed fills an empty event store with demo interactions.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"behaviorlytics/api/database"
	"behaviorlytics/api/seed"
	"behaviorlytics/api/store"
)

func main() {
	users := flag.Int("users", 30, "number of demo users")
	days := flag.Int("days", 30, "number of days of history")
	clickhouse := flag.Bool("clickhouse", false, "seed the ClickHouse event store instead of the SQL one")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var events store.EventStore
	if *clickhouse {
		chClient, err := database.NewClickHouseDB()
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse database: %v", err)
		}
		defer chClient.Close()
		if err := chClient.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare ClickHouse schema: %v", err)
		}
		events = store.NewClickHouseEventStore(chClient)
	} else {
		dbClient, err := database.NewSQLDB(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("Failed to initialize SQL database: %v", err)
		}
		defer dbClient.Close()
		if err := dbClient.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare SQL schema: %v", err)
		}
		events = store.NewSQLEventStore(dbClient)
	}

	opts := seed.Options{Users: *users, Days: *days, Now: time.Now().UTC()}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if _, err := seed.Run(ctx, events, rng, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

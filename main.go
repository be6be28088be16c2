package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"behaviorlytics/api/database"
	"behaviorlytics/api/handlers"
	"behaviorlytics/api/metrics"
	"behaviorlytics/api/pipeline"
	"behaviorlytics/api/store"
	"behaviorlytics/api/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- SQL database (patterns, and events unless ClickHouse is selected) ---
	dbClient, err := database.NewSQLDB(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to initialize SQL database: %v", err)
	}
	defer dbClient.Close()

	schemaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := dbClient.EnsureSchema(schemaCtx); err != nil {
		log.Fatalf("Failed to prepare SQL schema: %v", err)
	}
	cancel()

	eventStore, closeEvents, err := openEventStore(ctx, dbClient)
	if err != nil {
		log.Fatalf("Failed to initialize event store: %v", err)
	}
	defer closeEvents()
	patternStore := store.NewSQLPatternStore(dbClient)

	m := metrics.New()
	window := utils.GetEnvInt("PATTERN_WINDOW", handlers.DefaultPatternWindow)

	routerCfg := handlers.RouterConfig{
		EventStore:    eventStore,
		PatternStore:  patternStore,
		Metrics:       m,
		PatternWindow: window,
		AllowedOrigin: os.Getenv("FE_ORIGIN"),
	}

	if utils.GetEnvBool("PIPELINE_ENABLED", false) {
		interval := utils.GetEnvSeconds("DATA_PIPELINE_INTERVAL", 60*time.Second)
		p := pipeline.New(eventStore, patternStore, m, interval, window)
		routerCfg.Pipeline = p
		go p.Run(ctx)
	}

	port := utils.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handlers.NewRouter(routerCfg),
	}

	go func() {
		log.Printf("Behavior analytics API starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// openEventStore picks the event backend from EVENT_STORE.
func openEventStore(ctx context.Context, dbClient *database.DBClient) (store.EventStore, func(), error) {
	switch backend := utils.GetEnv("EVENT_STORE", "sql"); backend {
	case "clickhouse":
		chClient, err := database.NewClickHouseDB()
		if err != nil {
			return nil, nil, err
		}
		if err := chClient.EnsureSchema(ctx); err != nil {
			chClient.Close()
			return nil, nil, err
		}
		return store.NewClickHouseEventStore(chClient), chClient.Close, nil
	case "sql":
		return store.NewSQLEventStore(dbClient), func() {}, nil
	default:
		return nil, nil, errors.New("EVENT_STORE must be 'sql' or 'clickhouse', got '" + backend + "'")
	}
}

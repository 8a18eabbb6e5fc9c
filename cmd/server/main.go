package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aethex/emissary/internal/api"
	"aethex/emissary/internal/bot"
	"aethex/emissary/internal/db"
	"aethex/emissary/internal/discord"
	"aethex/emissary/internal/logging"
	"aethex/emissary/internal/metrics"
	"aethex/emissary/internal/routes"
	"aethex/emissary/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Emissary starting up",
		"environment", appEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx
	if err := db.InitPostgres(); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("❌ Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM
	host := os.Getenv("PG_HOST")
	port := os.Getenv("PG_PORT")
	user := os.Getenv("PG_USER")
	dbname := os.Getenv("PG_DB")
	password := os.Getenv("PG_PASSWORD")
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)

	if _, err := db.InitPostgresORM(dsn); err != nil {
		logging.Error("Failed to connect to Postgres (GORM)", "error", err.Error())
		log.Fatalf("❌ Failed to connect to Postgres (GORM): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	// Open the Discord gateway
	session, err := discord.NewSession(os.Getenv("DISCORD_TOKEN"))
	if err != nil {
		logging.Error("Failed to open Discord session", "error", err.Error())
		log.Fatalf("❌ Failed to open Discord session: %v", err)
	}
	defer session.Close()
	logging.Info("Connected to Discord gateway")

	metricsReg := metrics.NewMetricsRegistry()

	provider := discord.NewSessionClient(session)
	deps, err := api.InitDependencies(provider, metricsReg)
	if err != nil {
		logging.Error("Failed to initialize dependencies", "error", err.Error())
		log.Fatalf("❌ Failed to initialize dependencies: %v", err)
	}

	// Slash commands and guild lifecycle handlers
	emissaryBot := bot.NewBot(session, deps.Services.Identity, deps.Services.Sync, deps.Repo.Guilds)
	if err := emissaryBot.Start(); err != nil {
		logging.Error("Failed to start bot", "error", err.Error())
		log.Fatalf("❌ Failed to start bot: %v", err)
	}

	// Background workers: queue consumers and the drift audit sweep
	workers.InitWorkers(deps)

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	logging.Info("Server starting",
		"port", 8080,
		"environment", appEnv,
	)

	log.Println("Starting server on :8080")
	log.Fatal(http.ListenAndServe(":8080", mux))
}

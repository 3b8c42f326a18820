package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/cyberpath-academy/learning-engine/pkg/alertlog"
	"github.com/cyberpath-academy/learning-engine/pkg/auth"
	"github.com/cyberpath-academy/learning-engine/pkg/config"
	"github.com/cyberpath-academy/learning-engine/pkg/database"
	"github.com/cyberpath-academy/learning-engine/pkg/handlers"
	"github.com/cyberpath-academy/learning-engine/pkg/llm"
	"github.com/cyberpath-academy/learning-engine/pkg/logging"
	"github.com/cyberpath-academy/learning-engine/pkg/middleware"
	"github.com/cyberpath-academy/learning-engine/pkg/queryguard"
	"github.com/cyberpath-academy/learning-engine/pkg/repositories"
	"github.com/cyberpath-academy/learning-engine/pkg/retry"
	"github.com/cyberpath-academy/learning-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("advisor_provider", cfg.Advisor.Provider),
		zap.Bool("advisor_configured", cfg.Advisor.IsAvailable()))

	ctx := context.Background()

	// Record store, with retry for slow-starting databases.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.URL(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("Failed to connect to record store", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Migrations run through database/sql on the pgx stdlib driver.
	migrationDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	// Optional Redis catalog snapshot cache.
	rdb, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.String("error", logging.SanitizeError(err)))
	}
	if rdb == nil {
		logger.Info("Redis not configured, catalog snapshots disabled")
	}

	// Local index-alert log. Open never fails: a broken file degrades to a
	// log-only store.
	alertStore := alertlog.Open(cfg.AlertLog.Path, cfg.AlertLog.MaxEntries, logger)
	defer func() { _ = alertStore.Close() }()

	guard := queryguard.NewExecutor(alertStore, logger)

	courseRepo := repositories.NewCourseRepository(db)
	progressRepo := repositories.NewProgressRepository(db)
	quizRepo := repositories.NewQuizRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	snapshotTTL := time.Duration(cfg.Redis.SnapshotTTLMinutes) * time.Minute
	catalog := services.NewCatalogService(courseRepo, rdb, snapshotTTL, logger)
	loader := services.NewSignalLoader(progressRepo, quizRepo, profileRepo, guard, logger)

	weights, err := services.LoadAlgorithmWeights(cfg.Recommend.WeightsPath)
	if err != nil {
		logger.Fatal("Failed to load algorithm weights", zap.Error(err))
	}
	combiner := services.NewCombiner(cfg.Recommend.Combiner)

	// AI advisor is optional; without it the AI algorithm contributes nothing.
	var advisor llm.AdvisorClient
	var breaker *llm.CircuitBreaker
	if cfg.Advisor.IsAvailable() {
		advisor, err = llm.NewAdvisorClient(&cfg.Advisor, logger)
		if err != nil {
			logger.Fatal("Failed to create advisor client", zap.Error(err))
		}
		breaker = llm.NewCircuitBreaker(llm.DefaultCircuitBreakerConfig())
	} else {
		logger.Info("Advisor endpoint not configured, AI recommendations disabled")
	}

	recommendations := services.NewRecommendationService(
		loader, catalog, progressRepo, advisor, breaker, cfg.Advisor.Timeout(),
		weights, combiner, cfg.Recommend.MaxRecommendations, logger)

	jwks, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwks.Close()
	authMW := auth.NewMiddleware(jwks, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	recsHandler := handlers.NewRecommendationsHandler(recommendations, logger)
	mux.HandleFunc("GET /api/users/{uid}/recommendations",
		authMW.RequireAuthForUser("uid")(recsHandler.GetRecommendations))

	coursesHandler := handlers.NewCoursesHandler(catalog, logger)
	mux.HandleFunc("GET /api/courses", authMW.RequireAuth(coursesHandler.ListCourses))
	mux.HandleFunc("POST /api/courses/reload", authMW.RequireAuth(coursesHandler.ReloadCatalog))

	alertsHandler := handlers.NewAlertsHandler(alertStore, logger)
	mux.HandleFunc("GET /api/system/index-alerts", authMW.RequireAuth(alertsHandler.ListAlerts))
	mux.HandleFunc("DELETE /api/system/index-alerts/{key...}", authMW.RequireAuth(alertsHandler.DismissAlert))
	mux.HandleFunc("DELETE /api/system/index-alerts", authMW.RequireAuth(alertsHandler.ClearAlerts))

	handler := middleware.RequestLogger(logger)(mux)

	addr := fmt.Sprintf("%s:%s", cfg.BindAddr, cfg.Port)
	logger.Info("Starting learning-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

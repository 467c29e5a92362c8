package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/config"
	v1 "github.com/shenikar/irdesk/internal/handler/http/v1"
	"github.com/shenikar/irdesk/internal/repository"
	"github.com/shenikar/irdesk/internal/service"
	"github.com/shenikar/irdesk/internal/webhook"
	"github.com/shenikar/irdesk/pkg/logger"
	"github.com/shenikar/irdesk/pkg/postgres"
	redisclient "github.com/shenikar/irdesk/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/irdesk/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Incident Response Desk API
// @version 1.0
// @description Multi-tenant incident response platform: incidents, assets, runbooks, communications and exercises.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(cfg.MigrationsPath, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run migrations
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Connect to PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Initialize Redis client
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Initialize webhook publisher and worker
	webhookPublisher := webhook.NewRedisPublisher(redisClient)
	webhookWorker := webhook.NewWorker(redisClient, log, cfg)
	workerDone := webhookWorker.Start(ctx)

	// Initialize repositories
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient, cfg.CacheTTL)
	licenseRepo := repository.NewLicenseRepository(dbpool, redisClient, cfg.CacheTTL)
	organizationRepo := repository.NewOrganizationRepository(dbpool)
	userRepo := repository.NewUserRepository(dbpool, redisClient, cfg.CacheTTL)
	auditRepo := repository.NewAuditRepository(dbpool)
	assetRepo := repository.NewAssetRepository(dbpool)
	tagRepo := repository.NewTagRepository(dbpool)
	dropdownRepo := repository.NewDropdownRepository(dbpool)
	templateRepo := repository.NewTemplateRepository(dbpool)
	runbookRepo := repository.NewRunbookRepository(dbpool)
	exerciseRepo := repository.NewExerciseRepository(dbpool)

	// Initialize services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	auditService := service.NewAuditService(auditRepo, log)
	licenseService := service.NewLicenseService(licenseRepo, auditService, log)
	userService := service.NewUserService(userRepo, licenseService, auditService, log)
	templateService := service.NewTemplateService(
		templateRepo, incidentRepo, organizationRepo, userRepo, webhookPublisher, auditService, log,
	)
	services := v1.Services{
		Auth:          service.NewAuthService(userRepo, organizationRepo, tokens, auditService, log),
		Users:         userService,
		Organizations: service.NewOrganizationService(organizationRepo, auditService, log, cfg.DefaultPlan),
		Licenses:      licenseService,
		Audit:         auditService,
		Incidents:     service.NewIncidentService(incidentRepo, userRepo, assetRepo, auditService, log),
		Assets:        service.NewAssetService(assetRepo, licenseService, auditService, log),
		Tags:          service.NewTagService(tagRepo, auditService, log),
		Dropdowns:     service.NewDropdownService(dropdownRepo, auditService, log),
		Templates:     templateService,
		Runbooks:      service.NewRunbookService(runbookRepo, incidentRepo, licenseService, auditService, log),
		Exercises:     service.NewExerciseService(exerciseRepo, runbookRepo, userRepo, licenseService, auditService, log),
	}

	// Bootstrap the first system administrator
	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		if err := userService.EnsureSystemAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			log.Fatalf("Failed to bootstrap system administrator: %v", err)
		}
		log.WithField("email", cfg.BootstrapAdminEmail).Info("System administrator ensured")
	}

	// Initialize handlers
	limiter := redisclient.NewRateLimiter(redisClient, "rl:login:", cfg.LoginRateLimit, cfg.LoginRateWindow)
	handler := v1.NewHandler(services, tokens, limiter, log, cfg)

	// Set up Gin router
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Swagger UI route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Serve in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Stop webhook worker
	cancel()
	select {
	case <-workerDone:
		log.Info("Webhook worker stopped")
	case <-shutdownCtx.Done():
		log.Warn("Webhook worker did not stop in time")
	}

	log.Info("Server gracefully stopped")
}

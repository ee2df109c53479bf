package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/adelekeoti/edusiastic-backend/docs" // Import generated swagger docs
	appAuth "github.com/adelekeoti/edusiastic-backend/internal/app/auth"
	appControllers "github.com/adelekeoti/edusiastic-backend/internal/app/controllers"
	appMigrations "github.com/adelekeoti/edusiastic-backend/internal/app/migrations"
	appRepos "github.com/adelekeoti/edusiastic-backend/internal/app/repositories"
	appRoutes "github.com/adelekeoti/edusiastic-backend/internal/app/routes"
	appServices "github.com/adelekeoti/edusiastic-backend/internal/app/services"
	"github.com/adelekeoti/edusiastic-backend/internal/config"
	"github.com/adelekeoti/edusiastic-backend/internal/db"
	appMiddleware "github.com/adelekeoti/edusiastic-backend/internal/middleware"
	pkgAuth "github.com/adelekeoti/edusiastic-backend/internal/pkg/auth"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/email"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/filestorage"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/helpers"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/logger"
	"github.com/adelekeoti/edusiastic-backend/internal/pkg/notifier"
	"github.com/adelekeoti/edusiastic-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	GroupService         appServices.GroupService
	AssignmentService    appServices.AssignmentService
	SubmissionService    appServices.SubmissionService
	DashboardService     appServices.DashboardService
	AuthController       *appControllers.AuthController
	GroupController      *appControllers.GroupController
	AssignmentController *appControllers.AssignmentController
	SubmissionController *appControllers.SubmissionController
	DashboardController  *appControllers.DashboardController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	AuthzService         *appAuth.AuthorizationService
	Dispatcher           notifier.Dispatcher
	Logger               zerolog.Logger
	FileStorage          *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Demo accounts for local development
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage for uploaded submission documents. The baseURL must match
	// the static file serving endpoint registered in SetupRouter.
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService(
		deps.Repos.UserRepository,
		deps.Repos.GroupRepository,
		deps.Repos.GroupMemberRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Group notifications go out by email when SMTP is configured,
	// otherwise they only hit the log
	if cfg.SMTP.Host != "" {
		mailer := email.NewSMTPMailer(email.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromName:  cfg.SMTP.FromName,
			FromEmail: cfg.SMTP.FromEmail,
			UseTLS:    cfg.SMTP.UseTLS,
		}, lgr)
		deps.Dispatcher = notifier.NewEmailDispatcher(mailer, deps.Repos.GroupMemberRepository, lgr)
	} else {
		deps.Dispatcher = notifier.NewLogDispatcher(lgr)
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.GroupService = appServices.NewGroupService(
		deps.Repos.GroupRepository,
		deps.Repos.GroupMemberRepository,
		deps.Repos.UserRepository,
		deps.AuthzService,
		lgr,
	)
	deps.AssignmentService = appServices.NewAssignmentService(
		deps.Repos.AssignmentRepository,
		deps.Repos.SubmissionRepository,
		deps.AuthzService,
		deps.Dispatcher,
		lgr,
	)
	deps.SubmissionService = appServices.NewSubmissionService(
		deps.Repos.SubmissionRepository,
		deps.Repos.AssignmentRepository,
		deps.AuthzService,
		deps.FileStorage,
		lgr,
	)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.GroupRepository,
		deps.Repos.AssignmentRepository,
		deps.Repos.SubmissionRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService, lgr)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.AssignmentService, lgr)
	deps.SubmissionController = appControllers.NewSubmissionController(deps.SubmissionService, lgr)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Recovery(lgr))

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.GroupController,
		deps.AssignmentController,
		deps.SubmissionController,
		deps.DashboardController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

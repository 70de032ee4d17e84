package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/andressep95/hr-service/internal/config"
	"github.com/andressep95/hr-service/internal/domain"
	"github.com/andressep95/hr-service/internal/handler"
	"github.com/andressep95/hr-service/internal/handler/middleware"
	"github.com/andressep95/hr-service/internal/repository/postgres"
	"github.com/andressep95/hr-service/internal/service"
	"github.com/andressep95/hr-service/pkg/blacklist"
	"github.com/andressep95/hr-service/pkg/broker"
	"github.com/andressep95/hr-service/pkg/hash"
	"github.com/andressep95/hr-service/pkg/jwt"
	"github.com/andressep95/hr-service/pkg/logger"
	pg "github.com/andressep95/hr-service/pkg/postgres"
	"github.com/andressep95/hr-service/pkg/rbac"
	"github.com/andressep95/hr-service/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		slog.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pg.Connect(ctx, l, pg.Options{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("failed to close database", "error", err)
		}
	}()
	l.Info("database connection established")

	if err := pg.UpMigrations(db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	redisClient, err := initRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			l.Error("failed to close redis", "error", err)
		}
	}()
	l.Info("redis connection established")

	privateKey, publicKey, err := loadRSAKeys(cfg)
	if err != nil {
		return err
	}

	tokenService, err := jwt.NewTokenService(privateKey, publicKey, cfg.JWT.AccessTokenExpiry, cfg.JWT.Issuer)
	if err != nil {
		return fmt.Errorf("init token service: %w", err)
	}

	events := broker.NewPublisher(l, cfg.Kafka.Brokers, cfg.Kafka.SessionTopic)
	defer events.Close()

	validate := validator.NewValidator()
	hasher := hash.NewHasher(hash.DefaultConfig)
	tokenBlacklist := blacklist.NewTokenBlacklist(redisClient)

	// Repositories
	adminRepo := postgres.NewAdminRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	employeeRepo := postgres.NewEmployeeRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)

	// Services
	authService := service.NewAuthService(adminRepo, companyRepo, employeeRepo, sessionRepo,
		tokenService, tokenBlacklist, hasher, events, cfg.Auth)
	companyService := service.NewCompanyService(companyRepo, employeeRepo, hasher, authService)
	employeeService := service.NewEmployeeService(employeeRepo, companyRepo, hasher, authService)
	roleService := service.NewRoleService(roleRepo, employeeRepo)
	sessionService := service.NewSessionService(sessionRepo)
	setupService := service.NewSetupService(adminRepo, hasher, cfg.Setup.Token)

	if cfg.Setup.Token == "" && cfg.IsProduction() {
		l.Warn("SETUP_TOKEN is empty, the first admin can be created without a token")
	}

	app := fiber.New(fiber.Config{
		AppName:               "HR Service",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
	})

	app.Use(middleware.LoggerMiddleware(l))
	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	handler.SetupRoutes(app,
		handler.Handlers{
			Auth:     handler.NewAuthHandler(authService, companyService, validate),
			Company:  handler.NewCompanyHandler(companyService, validate),
			Employee: handler.NewEmployeeHandler(employeeService, validate),
			Role:     handler.NewRoleHandler(roleService, validate),
			Session:  handler.NewSessionHandler(sessionService),
			Setup:    handler.NewSetupHandler(setupService, validate),
			Health: handler.NewHealthHandler(db, handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})),
			JWKS: handler.NewJWKSHandler(tokenService.GetPublicKey(), tokenService.KeyID()),
		},
		handler.Guards{
			Authenticated: func(classes ...domain.ActorClass) fiber.Handler {
				return middleware.AuthMiddleware(tokenService, tokenBlacklist, sessionService, classes...)
			},
			Capability: func(featureKey string, action rbac.Action) fiber.Handler {
				return middleware.RequireCapability(roleService, featureKey, action)
			},
		},
	)

	go pruneSessions(ctx, l, sessionService, cfg.Auth.SessionPruneInterval)

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		l.Info("server starting", "addr", addr, "environment", cfg.Server.Environment)
		serverErr <- app.Listen(addr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	l.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	l.Info("server stopped")
	return nil
}

// pruneSessions deletes expired sessions until ctx is done.
func pruneSessions(ctx context.Context, l *slog.Logger, sessions *service.SessionService, every time.Duration) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Prune(ctx)
			if err != nil {
				l.Error("failed to prune sessions", "error", err)
				continue
			}
			if n > 0 {
				l.Info("pruned expired sessions", "count", n)
			}
		}
	}
}

// initRedis initializes Redis client and verifies connection
func initRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// loadRSAKeys loads RSA private and public keys from files
func loadRSAKeys(cfg *config.Config) ([]byte, []byte, error) {
	privateKey, err := os.ReadFile(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	publicKey, err := os.ReadFile(cfg.JWT.PublicKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read public key file: %w", err)
	}

	if len(privateKey) == 0 || len(publicKey) == 0 {
		return nil, nil, errors.New("key files must not be empty")
	}

	return privateKey, publicKey, nil
}

// customErrorHandler renders errors no handler turned into a response,
// such as unknown routes.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		ctx := c.UserContext()
		logger.FromContext(ctx).ErrorContext(ctx, "unhandled error", "error", err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

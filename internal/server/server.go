package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"powermed-api/internal/config"
	custommiddleware "powermed-api/internal/middleware"
	"powermed-api/internal/repository"
	"powermed-api/internal/service"
	"powermed-api/internal/storage"
	"powermed-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client

	authService service.AuthService
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigin, cfg.Server.Env == "development"))

	// Liveness endpoints
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"PowerMed API is running"}`))
	})

	// Initialize the image uploader. Missing storage credentials degrade
	// uploads instead of failing startup.
	uploader, err := storage.NewUploader(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if !cfg.Storage.Enabled() {
		logger.Warn("Storage credentials not configured, image uploads disabled")
	}

	// Initialize repositories
	adminRepo := repository.NewAdminRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	tokens := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.ExpiryDays)
	authService := service.NewAuthService(adminRepo, tokens)
	categoryService := service.NewCategoryService(categoryRepo, uploader, logger)
	productService := service.NewProductService(productRepo, categoryRepo, uploader, logger)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	productHandler := transport.NewProductHandler(productService, logger)

	// Create auth middleware
	requireAuth := custommiddleware.RequireAuth(authService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)

	// The login rate limit only engages when Redis is configured.
	var redisClient *redis.Client
	var loginLimiter func(http.Handler) http.Handler
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		loginLimiter = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.LoginRateLimit(), logger)
	} else {
		logger.Warn("Redis not configured, login rate limiting disabled")
	}

	// Register routes
	authHandler.RegisterRoutes(router, requireAuth, requireAdmin, loginLimiter)
	categoryHandler.RegisterRoutes(router, requireAuth, requireAdmin)
	productHandler.RegisterRoutes(router, requireAuth, requireAdmin)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		authService: authService,
	}

	return server, nil
}

// SeedAdmin ensures the bootstrap admin account exists. An already-present
// account is not an error.
func (s *Server) SeedAdmin(ctx context.Context, firstName, lastName, email, password string) error {
	_, err := s.authService.CreateAdmin(ctx, firstName, lastName, email, password)
	if err != nil {
		if err == service.ErrAdminExists {
			s.logger.Info("Seed admin already exists", zap.String("email", email))
			return nil
		}
		return err
	}
	s.logger.Info("Seed admin created", zap.String("email", email))
	return nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

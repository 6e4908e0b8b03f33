package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/juicebox/internal/handlers"
	"github.com/sbilibin2017/juicebox/internal/jwt"
	"github.com/sbilibin2017/juicebox/internal/logger"
	"github.com/sbilibin2017/juicebox/internal/middlewares"
	"github.com/sbilibin2017/juicebox/internal/repositories"
	"github.com/sbilibin2017/juicebox/internal/seed"
	"github.com/sbilibin2017/juicebox/internal/services"
	"github.com/sbilibin2017/juicebox/internal/tx"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds everything read from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	jwtSecretKey string
	jwtExpSecond int

	kafkaBrokers []string
	kafkaTopic   string
}

// @title juicebox API
// @version 1.0.0
// @description Users, posts and hashtags of the juicebox blog
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath, seedDB := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg, seedDB); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path and
// whether the database should be rebuilt with demo data.
func parseFlags() (string, bool) {
	c := flag.String("c", "config.env", "Path to configuration file")
	s := flag.Bool("seed", false, "Drop all tables and load demo data on startup")
	flag.Parse()
	return *c, *s
}

// parseConfig loads environment variables from a file and returns
// the application, database, logging, JWT and Kafka configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "juicebox")
	if cfg.pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if cfg.pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if cfg.pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// JWT config
	cfg.jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "3600")); err != nil {
		return
	}

	// Kafka config, publishing is off when no brokers are set
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.kafkaBrokers = append(cfg.kafkaBrokers, b)
			}
		}
	}
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "juicebox.posts")

	return
}

// run initializes the logger, database, Kafka writer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config, seedDB bool) error {
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.pgHost, cfg.pgPort, cfg.pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)

	// Kafka writer
	var kafkaWriter services.KafkaWriter
	if len(cfg.kafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:     kafka.TCP(cfg.kafkaBrokers...),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.Hash{},
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infow("Kafka publishing enabled", "brokers", cfg.kafkaBrokers, "topic", cfg.kafkaTopic)
	}

	// Initialize JWT service
	jwtSvc := jwt.New(
		jwt.WithSecretKey(cfg.jwtSecretKey),
		jwt.WithExpiration(time.Duration(cfg.jwtExpSecond)*time.Second),
	)

	// Initialize repositories
	schemaRepo := repositories.NewSchemaRepository(db)
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, tx.GetTxFromContext)
	tagReadRepo := repositories.NewTagReadRepository(db)
	tagWriteRepo := repositories.NewTagWriteRepository(db, tx.GetTxFromContext)
	postTagReadRepo := repositories.NewPostTagReadRepository(db, tx.GetTxFromContext)
	postTagWriteRepo := repositories.NewPostTagWriteRepository(db, tx.GetTxFromContext)
	postReadRepo := repositories.NewPostReadRepository(db, tx.GetTxFromContext)
	postWriteRepo := repositories.NewPostWriteRepository(db, tx.GetTxFromContext)

	// Initialize services
	userService := services.NewUserService(userReadRepo, userWriteRepo)
	authService := services.NewAuthService(userReadRepo, jwtSvc)
	tagService := services.NewTagService(tagReadRepo, tagWriteRepo)
	queryService := services.NewQueryService(postReadRepo, postTagReadRepo)
	associationService := services.NewAssociationService(tagService, postTagReadRepo, postTagWriteRepo)
	postService := services.NewPostService(
		tx.NewManager(db),
		postReadRepo,
		postWriteRepo,
		associationService,
		queryService,
		kafkaWriter,
	)

	if seedDB {
		if err := seed.Rebuild(ctx, schemaRepo, userService, postService); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(middlewares.MetricsMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/users/register", handlers.NewRegisterHandler(userService))
		r.Post("/users/login", handlers.NewLoginHandler(authService))
		r.Get("/users", handlers.NewListUsersHandler(userService))
		r.Get("/users/{id}", handlers.NewGetUserHandler(userService))
		r.Get("/posts", handlers.NewListPostsHandler(postService))
		r.Get("/posts/{id}", handlers.NewGetPostHandler(postService))
		r.Get("/tags", handlers.NewListTagsHandler(tagService))
		r.Get("/tags/{tagName}/posts", handlers.NewPostsByTagHandler(queryService))

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(jwtSvc))
			r.Patch("/users/me", handlers.NewUpdateMeHandler(userService))
			r.Post("/posts", handlers.NewCreatePostHandler(postService))
			r.Patch("/posts/{id}", handlers.NewUpdatePostHandler(postService))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

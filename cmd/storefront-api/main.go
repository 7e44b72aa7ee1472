package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tekashi/storefront/internal/api"
	"github.com/tekashi/storefront/internal/config"
	"github.com/tekashi/storefront/internal/core"
	"github.com/tekashi/storefront/internal/db"
	"github.com/tekashi/storefront/internal/logging"
	"github.com/tekashi/storefront/internal/metrics"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/ratelimit"
	"github.com/tekashi/storefront/internal/storage"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "create-admin" {
		createAdmin(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		applied, err := db.RunMigrations(ctx, cfg.DatabaseURL, *migrateDirFlag)
		if err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Strs("applied", applied).Msg("migrations complete")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPgxPoolMetrics(pool)

	rdb, err := db.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if rdb != nil {
		defer rdb.Close()
		store = ratelimit.NewRedisStore(rdb)
	}
	logger.Info().Str("store", store.Name()).Int("requests", cfg.RateLimitRequests).
		Dur("window", cfg.RateLimitWindow).Msg("rate limiting enabled")
	limiter := ratelimit.New(store, cfg.RateLimitRequests, cfg.RateLimitWindow)

	opts := core.Options{
		JWTSecret:     cfg.JWTSecret,
		JWTIssuer:     cfg.JWTIssuer,
		JWTTTL:        cfg.JWTTTL,
		TaxRate:       cfg.TaxRate,
		PublicBaseURL: cfg.PublicBaseURL,
	}
	if cfg.S3Enabled() {
		opts.Store = storage.NewS3Store(cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("object storage enabled")
	}

	srv := api.NewServer(logger, pool, rdb, core.NewServices(pool, opts), limiter)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting storefront API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

func createAdmin(args []string) {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "Admin email (required)")
	name := fs.String("name", "Administrator", "Admin display name")
	password := fs.String("password", "", "Admin password, at least 8 characters (required)")
	fs.Parse(args)

	if *email == "" || len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "error: --email and a --password of at least 8 characters are required")
		fmt.Fprintln(os.Stderr, "usage: storefront-api create-admin --email <email> --password <password> [--name <name>]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := core.NewUserService(pool)
	user, err := svc.Create(ctx, *name, *email, *password, "", "", model.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin created successfully.\n\n")
	fmt.Printf("  Name:   %s\n", user.Name)
	fmt.Printf("  Email:  %s\n", user.Email)
	fmt.Printf("  ID:     %s\n", user.ID)
}

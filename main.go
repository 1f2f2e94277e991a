package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"minishop/internal/auth"
	"minishop/internal/cache"
	"minishop/internal/config"
	"minishop/internal/database"
	"minishop/internal/handlers"
	"minishop/internal/logger"
	"minishop/internal/server"
	"minishop/internal/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minishop",
	Short: "Mini e-commerce backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample catalog when the products collection is empty",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Setup(cfg.IsProduction())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		db, err := database.Connect(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			return err
		}
		defer db.Close(context.Background())

		if err := db.Ping(ctx); err != nil {
			return err
		}
		n, err := database.SeedProducts(ctx, store.NewMongoProducts(db.DB()))
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d products\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func serve(parent context.Context) error {
	cfg := config.Load()
	log := logger.Setup(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	db, err := database.Connect(startCtx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", "error", err)
		}
	}()

	if err := db.Ping(startCtx); err != nil {
		// keep serving so /test can report the failure
		log.Warn("mongo ping failed", "error", err)
	} else {
		log.Info("mongo connected", "database", db.Name())
	}
	go database.KeepEnsuringIndexes(ctx, db.DB(), 10*time.Second)

	catalogCache, err := cache.New(startCtx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, using in-memory catalog cache", "error", err)
		catalogCache = cache.NewMemory()
	}
	defer catalogCache.Close()
	log.Info("catalog cache ready", "driver", catalogCache.Driver(), "ttl", cfg.CatalogTTL)

	hasher, err := auth.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return err
	}

	products := store.NewCachedProducts(store.NewMongoProducts(db.DB()), catalogCache, cfg.CatalogTTL)
	if cfg.SeedOnStart {
		if _, err := database.SeedProducts(startCtx, products); err != nil {
			log.Warn("seeding skipped", "error", err)
		}
	}

	router := server.NewRouter(cfg, server.Deps{
		Users:     store.NewMongoUsers(db.DB()),
		Products:  products,
		Orders:    store.NewMongoOrders(db.DB()),
		Hasher:    hasher,
		Issuer:    auth.RandomIssuer{},
		StoreInfo: db,
		Env: handlers.DiagnosticEnv{
			DatabaseURLSet:  config.IsSet("MONGO_URI"),
			DatabaseNameSet: config.IsSet("DB_NAME"),
		},
	}, log)

	slog.Info("starting minishop", "port", cfg.Port, "env", cfg.AppEnv)
	return server.Run(ctx, ":"+cfg.Port, router)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|seed")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	switch *cmd {
	case "up":
		if err := migrate.Run(ctx, dbClient.DB()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate up failed: %v\n", err)
			os.Exit(1)
		}
		if err := migrate.SeedLookups(ctx, dbClient.DB()); err != nil {
			fmt.Fprintf(os.Stderr, "seeding lookups failed: %v\n", err)
			os.Exit(1)
		}
		logg.Info(ctx, "schema migrated and lookups seeded")

	case "seed":
		if err := migrate.SeedLookups(ctx, dbClient.DB()); err != nil {
			fmt.Fprintf(os.Stderr, "seeding lookups failed: %v\n", err)
			os.Exit(1)
		}
		logg.Info(ctx, "lookups seeded")

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

package main

import (
	"context"
	"flag"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	dir := flag.String("dir", "", "directory holding fixtures/*.json (defaults to the embedded fixtures)")
	validateOnly := flag.Bool("validate", false, "validate fixtures without writing")
	flag.Parse()

	var fsys fs.FS = embeddedFixtures
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	dataset, err := LoadDataset(fsys)
	if err != nil {
		logg.Error(context.Background(), "invalid seed fixtures", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"categories": len(dataset.Categories),
		"products":   len(dataset.Products),
		"coupons":    len(dataset.Coupons),
	})
	if *validateOnly {
		logg.Info(ctx, "seed fixtures valid")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	if err := dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return dataset.Apply(ctx, tx)
	}); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed complete")
}

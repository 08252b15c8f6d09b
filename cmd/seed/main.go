package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"skillpath/internal/config"
	"skillpath/internal/database/migration"
	dbpostgres "skillpath/internal/database/postgres"
	"skillpath/internal/database/seeder"
	"skillpath/internal/pkg/logger"
	"skillpath/migrations"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "catalog YAML to seed instead of the bundled demo catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	seeders, err := loadSeeders(*file)
	if err != nil {
		lg.Fatal("failed to load catalog", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, cfg.App.AppName, lg)
	if err != nil {
		lg.Fatal("failed to connect database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := (migration.Runner{FS: migrations.FS, Logger: lg.Named("migration")}).Run(ctx, db.SQLDB()); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}
	if err := (seeder.Runner{Seeders: seeders, Logger: lg.Named("seeder")}).Run(ctx, db); err != nil {
		lg.Fatal("seeding failed", zap.Error(err))
	}
}

func loadSeeders(path string) ([]seeder.Seeder, error) {
	if path == "" {
		return seeder.Defaults()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := seeder.ParseCatalog(f)
	if err != nil {
		return nil, err
	}
	return []seeder.Seeder{seeder.CatalogSeeder{Catalog: c}}, nil
}

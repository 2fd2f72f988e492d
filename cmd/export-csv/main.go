package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"kuralhub/internal/dataset"
	"kuralhub/internal/kural"
	"kuralhub/pkg/database"
	"kuralhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadFromEnv()
	if err != nil {
		panic(err)
	}

	var (
		out    = flag.String("out", "data/kural.csv", "output CSV path")
		dbPath = flag.String("db", cfg.DBPath, "sqlite path (defaults to ~/.kuralhub/data.db)")
	)
	flag.Parse()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(database.ConfigFor(*dbPath))
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	if err := export(ctx, kural.NewRepo(db), *out); err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}
	logger.Info("exported kurals", zap.String("out", *out))
}

func export(ctx context.Context, repo *kural.Repo, outPath string) error {
	rows, err := repo.All(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := dataset.WriteCSV(f, rows); err != nil {
		return err
	}
	return f.Close()
}

package main

import (
	"context"
	"flag"
	"net/http"
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
		in     = flag.String("in", cfg.Dataset, "input CSV path or http(s) URL")
		dbPath = flag.String("db", cfg.DBPath, "sqlite path (defaults to ~/.kuralhub/data.db)")
	)
	flag.Parse()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Open(database.ConfigFor(*dbPath))
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	src, err := dataset.SourceFor(*in, nil, &http.Client{Timeout: time.Minute})
	if err != nil {
		logger.Fatal("dataset source", zap.Error(err))
	}
	rows, err := src.Load(ctx)
	if err != nil {
		logger.Fatal("load csv failed", zap.String("source", src.Name()), zap.Error(err))
	}

	n, err := kural.NewRepo(db).UpsertAll(ctx, rows)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	logger.Info("imported kurals",
		zap.String("source", src.Name()),
		zap.Int("rows", len(rows)),
		zap.Int("upserted", n),
	)
}

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kuralhub/internal/browse"
	"kuralhub/internal/dataset"
	"kuralhub/internal/grpcserver"
	"kuralhub/internal/kural"
	"kuralhub/pkg/database"
	"kuralhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadFromEnv()
	if err != nil {
		panic(err)
	}
	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(database.ConfigFor(cfg.DBPath))
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	src, err := dataset.SourceFor(cfg.Dataset, kural.NewRepo(db), &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		logger.Fatal("dataset source", zap.Error(err))
	}

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("grpc listen failed", zap.Error(err))
	}

	state := browse.NewState(logger)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	// calls return Unavailable until this finishes
	go func() { _ = state.Load(ctx, src) }()

	grpcServer := grpcserver.New(grpcserver.NewServer(state, logger))
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		grpcServer.GracefulStop()
	}()

	logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr), zap.String("dataset", src.Name()))
	if err := grpcServer.Serve(listener); err != nil {
		logger.Error("grpc server stopped", zap.Error(err))
		os.Exit(1)
	}
}

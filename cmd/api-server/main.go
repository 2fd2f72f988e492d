package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kuralhub/internal/browse"
	"kuralhub/internal/dataset"
	"kuralhub/internal/kural"
	"kuralhub/internal/live"
	"kuralhub/internal/prefs"
	"kuralhub/internal/web"
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

	dbCfg := database.ConfigFor(cfg.DBPath)
	db, err := database.Open(dbCfg)
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

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	state := browse.NewState(logger)
	hub := live.NewHub()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), web.RequestLogger(logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	tokens := prefs.TokenService{
		Secret:   []byte(cfg.Visitor.Secret),
		Issuer:   cfg.Visitor.Issuer,
		Duration: cfg.Visitor.TTL(),
	}
	router.Use(prefs.VisitorMiddleware(tokens, logger))

	pages := web.NewHandler(state, prefs.NewRepo(db), renderer, logger)
	liveHandler := &live.Handler{
		Hub:      hub,
		State:    state,
		Renderer: renderer,
		Debounce: cfg.Debounce,
		Logger:   logger,
	}
	liveHandler.Register(router, "/ws", pages)
	pages.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		snap := state.Snapshot()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{
			"dataset":    snap.Status,
			"ws_clients": stats.Sessions,
		}
		if err := db.PingContext(ctx); err != nil {
			body["status"] = "not_ready"
			body["db_error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["db"] = "ok"
		if snap.Status != browse.StatusReady {
			body["status"] = "not_ready"
			if snap.Err != nil {
				body["dataset_error"] = snap.Err.Error()
			}
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
	})

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	loadCtx, cancelLoad := context.WithCancel(context.Background())
	defer cancelLoad()

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	// the page is served (with a loading indicator) while the dataset loads
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = hub.Load(loadCtx, state, src)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr), zap.String("dataset", src.Name()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("shutting down")
	cancelLoad()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linksift/internal/config"
	"linksift/internal/db"
	"linksift/internal/logger"
	"linksift/internal/ratelimit"
	"linksift/internal/server"
	"linksift/internal/store"
	"linksift/internal/suffix"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db_connect_failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	limiter := ratelimit.New(cfg.RatePerMinute, cfg.RateBurst)

	srv := server.New(cfg, st, limiter, log, suffix.Public{})
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Routes(),
	}

	go func() {
		log.Info("api_listen", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http_server_error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	log.Info("api_shutdown")
}

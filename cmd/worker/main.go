package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"log/slog"

	"linksift/internal/canon"
	"linksift/internal/config"
	"linksift/internal/db"
	"linksift/internal/fetcher"
	"linksift/internal/logger"
	"linksift/internal/store"
	"linksift/internal/suffix"
	"linksift/internal/urlval"
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
	f := fetcher.New(int64(cfg.FetchMaxBytes), cfg.UserAgent)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runOnce(ctx, cfg, st, f, log)
		case <-done:
			log.Info("worker_shutdown")
			return
		}
	}
}

func runOnce(ctx context.Context, cfg config.Config, st *store.Store, f *fetcher.Fetcher, log *slog.Logger) {
	links, err := st.ClaimForCrawl(ctx, cfg.WorkerBatch)
	if err != nil {
		log.Error("worker_claim_failed", "error", err)
		return
	}
	if len(links) == 0 {
		return
	}

	oracle := suffix.Public{}
	sem := make(chan struct{}, 10)
	var wg sync.WaitGroup
	for _, link := range links {
		link := link
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			ctxFetch, cancel := context.WithTimeout(ctx, 12*time.Second)
			defer cancel()

			page, err := f.Fetch(ctxFetch, link.URL)
			if err != nil {
				reason := classifyFetchError(err)
				_ = st.MarkCrawlFailed(ctx, link.ID, reason)
				log.Info("worker_fetch_failed", "link_id", link.ID, "reason", reason)
				return
			}
			discovered := 0
			for _, target := range page.Links {
				canonical, hash := canon.Canonicalize(target)
				domain := urlval.Parse(canonical).PLD(oracle)
				if _, created, err := st.Upsert(ctx, target, canonical, hash, domain); err == nil && created {
					discovered++
				}
			}
			if err := st.MarkCrawled(ctx, link.ID); err != nil {
				log.Error("worker_db_update_failed", "link_id", link.ID, "error", err)
				return
			}
			log.Info("worker_fetch_success", "link_id", link.ID, "links", len(page.Links), "new", discovered)
		}()
	}
	wg.Wait()
}

func classifyFetchError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, fetcher.ErrTooLarge) {
		return "size_limit"
	}
	if errors.Is(err, fetcher.ErrTooManyRedir) {
		return "redirect_limit"
	}
	if errors.Is(err, fetcher.ErrBadStatus) {
		return "bad_status"
	}
	return "fetch_failed"
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physics-parser/api/internal/bootstrap"
	"physics-parser/api/internal/config"
	"physics-parser/api/internal/handle"
	"physics-parser/api/internal/httpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engines, closeEngines, err := bootstrap.Engines(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer closeEngines()

	h := handle.New(engines, cfg.ParseTimeout, cfg.ErrorStatusMode)

	repo, db, err := bootstrap.Journal(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	if db != nil {
		defer db.Close()
		h.WithJournal(repo, db)
	}

	srv := httpserver.New(cfg.Addr(), h)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Printf("physics-parser listening on %s (errors: %s)", cfg.Addr(), cfg.ErrorStatusMode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server: %v", err)
		return
	}
	log.Printf("physics-parser stopped")
}

package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/command"
	"officine.sn/internal/grid"
	"officine.sn/internal/httpapi"
	"officine.sn/internal/inspection"
	"officine.sn/internal/obs"
	"officine.sn/internal/store/memory"
	"officine.sn/internal/store/pg"
	"officine.sn/internal/stream"
)

var version = "0.3.0"

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true"
}

func main() {
	obs.Init()

	ctx := context.Background()
	now := auth.Timestamp(time.Now())

	// With no DSN the API runs entirely in memory; useful for dev and demos.
	var (
		authStore auth.Store
		inspStore inspection.Store
		trail     audit.Recorder
		db        *sql.DB
	)
	if dsn := os.Getenv("OFFICINE_PG_DSN"); dsn != "" {
		store, err := pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		if err := store.Seed(ctx, now); err != nil {
			log.Fatalf("seed: %v", err)
		}
		authStore, inspStore, trail = store, store, store
		db = store.DB()
	} else {
		store := memory.New()
		if err := store.Seed(now); err != nil {
			log.Fatalf("seed: %v", err)
		}
		authStore, inspStore, trail = store, store, store
	}

	authSvc, err := auth.NewService(authStore, trail)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	inspSvc, err := inspection.NewService(inspStore, trail,
		inspection.WithStrictTransitions(envBool("OFFICINE_STRICT_TRANSITIONS")))
	if err != nil {
		log.Fatalf("inspection service: %v", err)
	}

	grids := grid.NewRegistry()
	dispatcher, err := command.NewDispatcher(authSvc, inspSvc, grids, trail)
	if err != nil {
		log.Fatalf("dispatcher: %v", err)
	}

	api := httpapi.New(dispatcher, grids, stream.New(), trail, httpapi.ReadyProbe{DB: db}, httpapi.Config{
		Version:       version,
		RateBurst:     envInt("OFFICINE_RATE_BURST", 50),
		RatePerSecond: envInt("OFFICINE_RATE_PER_SECOND", 25),
	})

	addr := os.Getenv("OFFICINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting officine-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	obs.SetReady(true)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	obs.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

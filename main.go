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

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trackflow-service/api"
	"trackflow-service/auth"
	"trackflow-service/chat"
	"trackflow-service/config"
	"trackflow-service/core"
	"trackflow-service/tracking"
	"trackflow-service/tracking/store"
	"trackflow-service/workers/resync"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := core.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// The remote store is optional: without a DSN (or when the database is
	// unreachable at boot) the service runs on the local cache alone.
	var db *gorm.DB
	if cfg.DSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			logger.Warn("Remote store unreachable, running on local cache only", zap.Error(err))
			db = nil
		}
	} else {
		logger.Warn("No DATABASE_DSN configured, running on local cache only")
	}

	local, err := store.NewLocalStore(cfg.CacheDirectory)
	if err != nil {
		log.Fatal(err)
	}

	var remote *store.RemoteStore
	if db != nil {
		remote, err = store.NewRemoteStore(db)
		if err != nil {
			log.Fatal(err)
		}
	}
	records := store.NewLayeredStore(logger, remote, local)

	directory := tracking.NewDirectory(logger, records)
	lookup := tracking.NewLookup(records)

	hub := chat.NewHub()
	roomRefs, err := chat.NewRoomRefCache(cfg.CacheDirectory)
	if err != nil {
		log.Fatal(err)
	}

	// Auth and chat live in the hosted database; without it the service
	// degrades to public lookup over the cache.
	var (
		sessions auth.Sessions
		chatSvc  *chat.Service
	)
	if db != nil {
		sessions, err = auth.NewSessions(db, cfg.JWTSecret)
		if err != nil {
			log.Fatal(err)
		}
		chatStore, err := chat.NewStore(db)
		if err != nil {
			log.Fatal(err)
		}
		chatSvc = chat.NewService(logger, chatStore, roomRefs, hub)
	} else {
		logger.Warn("Admin console and chat disabled: no database available")
	}

	if remote != nil {
		orchestrator := core.NewOrchestrator(logger, []core.Worker{
			resync.NewWorker(logger, records, cfg.ResyncSchedule),
		})
		c, err := orchestrator.Start(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		defer c.Stop()
	}

	server := api.NewServer(logger, sessions, directory, lookup, chatSvc, hub)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}
	go func() {
		logger.Info("Listening", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Wait for termination signal to exit gracefully
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}

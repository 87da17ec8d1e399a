package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yahyahoussini/client-harmony-hub/internal/cache"
	"github.com/yahyahoussini/client-harmony-hub/internal/config"
	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/db"
	"github.com/yahyahoussini/client-harmony-hub/internal/notify"
	"github.com/yahyahoussini/client-harmony-hub/internal/server"
	"github.com/yahyahoussini/client-harmony-hub/internal/store"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if cfg.Env == "development" {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if *migrateOnlyFlag {
		log.Info("migrations completed; exiting as requested")
		return
	}

	blobs, err := store.OpenS3FromEnv(context.Background())
	if err != nil {
		log.Fatal("blob store init failed", zap.Error(err))
	}

	coord := coordinator.New(store.NewDB(dbConn), blobs, cache.New(), notify.NewLogSink(log), log)
	handler := server.New(dbConn, coord, log)

	log.Info("starting server", zap.String("env", cfg.Env), zap.String("port", cfg.Port))
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
}

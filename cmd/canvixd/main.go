package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canvix/canvix/server"
	"github.com/canvix/canvix/store"
	"github.com/canvix/canvix/store/memory"
	"github.com/canvix/canvix/store/sqlite"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load the optional .env file; the flags below fall back to the
	// environment values it provides.
	godotenv.Load()

	var (
		addr      = flag.String("addr", envOr("CANVIXD_ADDR", ":8080"), "HTTP listen address")
		storeKind = flag.String("store", envOr("STORAGE_TYPE", "memory"), "Snapshot store backend (memory|sqlite)")
		dsn       = flag.String("db", envOr("DATA_SOURCE_NAME", "canvix.db"), "Sqlite data source name")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var (
		st  store.SnapshotStore
		err error
	)
	switch *storeKind {
	case "sqlite":
		st, err = sqlite.NewSnapshotStore(*dsn)
		if err != nil {
			logrus.WithField("error", err).Fatal("Failed to open the sqlite store")
		}
	case "memory":
		st = memory.NewSnapshotStore()
	default:
		logrus.WithField("store", *storeKind).Fatal("Unsupported store backend")
	}
	defer st.Close()

	srv := &http.Server{
		Addr:    *addr,
		Handler: server.New(st).Router(),
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":  *addr,
			"store": *storeKind,
		}).Info("canvixd listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("error", err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithField("error", err).Error("Forced shutdown")
	}
}

// envOr returns the environment value of the key or the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

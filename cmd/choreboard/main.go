package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"choreboard/internal/backup"
	"choreboard/internal/config"
	"choreboard/internal/database"
	"choreboard/internal/logging"
	"choreboard/internal/remind"
	"choreboard/internal/server"
	"choreboard/internal/store"
)

func main() {
	restoreKey := flag.String("restore", "", "restore a backup before starting; pass an object key or 'latest'")
	flag.Parse()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	backupCfg := backup.Config{
		Endpoint:   cfg.S3.Endpoint,
		Bucket:     cfg.S3.Bucket,
		Region:     cfg.S3.Region,
		AccessKey:  cfg.S3.AccessKey,
		SecretKey:  cfg.S3.SecretKey,
		Passphrase: cfg.BackupPassphrase,
		DBPath:     cfg.DBPath,
	}

	// Restore runs before the database is opened.
	if *restoreKey != "" {
		if err := restore(backupCfg, *restoreKey, logger); err != nil {
			logger.Error("restore failed", "error", err)
			os.Exit(1)
		}
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backups := backup.NewManager(backupCfg, db, logger.With("component", "backup"))

	reminder := remind.New(time.Local, store.NewChoreStore(db), backups, logger.With("component", "remind"))
	if err := reminder.Schedule(cfg.RemindAt, cfg.BackupAt); err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}
	reminder.Start()
	defer reminder.Stop()

	srv := server.New(db, logger)

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("choreboard running", "addr", "http://localhost:"+cfg.Port, "backups", backups.Enabled())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func restore(cfg backup.Config, key string, logger *slog.Logger) error {
	m := backup.NewManager(cfg, nil, logger.With("component", "backup"))
	if !m.Enabled() {
		return fmt.Errorf("backup not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if key == "latest" {
		latest, err := m.LatestKey(ctx)
		if err != nil {
			return err
		}
		if latest == "" {
			return fmt.Errorf("no backups found")
		}
		key = latest
	}
	return m.Restore(ctx, key)
}

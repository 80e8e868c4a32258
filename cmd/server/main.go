package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuannm99/slotdb/internal/config"
	"github.com/tuannm99/slotdb/internal/engine"
	"github.com/tuannm99/slotdb/server/wire"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "slotdb.yaml", "Path to slotdb yaml config")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.TableMetaDir, 0o755); err != nil {
		slog.Error("create table meta dir", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.TableFileDir, 0o755); err != nil {
		slog.Error("create table file dir", "error", err)
		os.Exit(1)
	}

	eng, err := engine.Open(cfg)
	if err != nil {
		slog.Error("open engine", "error", err)
		os.Exit(1)
	}
	eng.Start()
	defer func() {
		if err := eng.Close(); err != nil {
			slog.Error("close engine", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	if err := wire.Run(ctx, wire.ServerConfig{Addr: addr, Queue: eng.Queue}); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

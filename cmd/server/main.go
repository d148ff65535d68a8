package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suPer8Hu/taim-chat/internal/ai"
	"github.com/suPer8Hu/taim-chat/internal/chat"
	"github.com/suPer8Hu/taim-chat/internal/config"
	"github.com/suPer8Hu/taim-chat/internal/db"
	"github.com/suPer8Hu/taim-chat/internal/httpapi"
	"github.com/suPer8Hu/taim-chat/internal/httpapi/handlers"
	"github.com/suPer8Hu/taim-chat/internal/observability"
	"github.com/suPer8Hu/taim-chat/internal/snapshot"
	"github.com/suPer8Hu/taim-chat/internal/store/rabbitmq"
	"github.com/suPer8Hu/taim-chat/internal/store/redisstore"
	"github.com/suPer8Hu/taim-chat/internal/store/sqlstore"
)

func openBackend(ctx context.Context, cfg config.Config) (snapshot.Backend, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		gdb, err := db.Open(cfg.StoreBackend, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		ss := sqlstore.New(gdb)
		if err := ss.Migrate(); err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return ss, closeFn, nil
	}
}

func main() {
	cfg := config.Load()
	log := observability.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Error("snapshot backend unavailable", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	reg := ai.NewRegistry()
	ai.RegisterDefaults(reg, cfg)
	gw := ai.NewGateway(reg, cfg.AIProvider, cfg.ModelFor(cfg.AIProvider))

	opts := []chat.Option{chat.WithDefaultTheme(chat.ParseTheme(cfg.DefaultTheme, chat.ThemeDark))}
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			// turn events are optional; keep serving without them
			log.Warn("rabbit unavailable, turn events disabled", "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, chat.WithNotifier(pub))
		}
	}

	ctrl := chat.Boot(ctx, snapshot.NewAdapter(backend, cfg.SnapshotSlot), gw, opts...)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handlers.NewHandler(cfg, ctrl, gw)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", "addr", cfg.HTTPAddr, "provider", cfg.AIProvider, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	ctrl.Shutdown(shutdownCtx)
}

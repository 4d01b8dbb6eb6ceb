package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lane-arena/internal/config"
	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/httpapi"
	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/logging"
	"github.com/DoyleJ11/lane-arena/internal/results"
	"github.com/DoyleJ11/lane-arena/internal/store"
	"github.com/DoyleJ11/lane-arena/internal/topology"
	"github.com/DoyleJ11/lane-arena/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func serve(parent context.Context, cfg config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	catalog := content.Default()
	if cfg.ContentPath != "" {
		if catalog, err = content.LoadFile(cfg.ContentPath); err != nil {
			return err
		}
	}

	var rs results.Store = results.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		if rs, err = results.Open(cfg.DatabaseURL, log); err != nil {
			return err
		}
	}

	eng := engine.New(catalog, topology.Standard())
	// The hub outlives the signal context so shutdown can drain it.
	h := hub.NewHub(context.Background(), eng, store.New(), hub.Config{
		TickDuration: cfg.TickDuration,
		Logger:       log,
		Results:      rs,
	})

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:       h,
			Results:   rs,
			Logger:    log,
			AutoStart: cfg.AutoStart,
			WS: ws.Options{
				OutboxSize:     cfg.OutboxSize,
				OriginPatterns: cfg.OriginPatterns,
				Logger:         log,
			},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.Duration("tick", cfg.TickDuration))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(sctx)
		reply := make(chan error, 1)
		h.Inbox() <- hub.ShutdownHub{Reply: reply}
		select {
		case hubErr := <-reply:
			err = multierr.Append(err, hubErr)
		case <-sctx.Done():
			err = multierr.Append(err, sctx.Err())
		}
		return multierr.Append(err, rs.Close())
	})

	return g.Wait()
}

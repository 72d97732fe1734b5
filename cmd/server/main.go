// Command server runs the passmint HTTP and realtime endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/passmint/passmint/internal/alerts"
	"github.com/passmint/passmint/internal/api"
	"github.com/passmint/passmint/internal/config"
	"github.com/passmint/passmint/internal/engine"
	"github.com/passmint/passmint/internal/store"
	"github.com/passmint/passmint/internal/ws"
)

// cacheSweepInterval is how often the store reclaims expired cache
// entries. Lazy expiry on read keeps this purely a memory optimization.
const cacheSweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	staticDir := flag.String("static-dir", "", "serve frontend static files from this directory; leave empty to disable")
	watch := flag.Bool("watch-config", true, "hot-reload the config file on change")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("passmint-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"default_length", cfg.Server.Generation.DefaultLength,
		"analytics_cache_ttl", cfg.Server.Analytics.CacheTTL,
		"alert_rules", len(cfg.Server.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Shared analytics/cache store, the only mutable state, injected
	// into everything that needs it.
	st := store.New()

	alertEngine := alerts.New(cfg.Server.Alerts)
	eng := engine.New(st, alertEngine, cfg.Server)

	// Realtime hub: per-session dispatch plus the periodic analytics push.
	hub := ws.New(eng, cfg.Server.Realtime.BroadcastInterval)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(eng, alertEngine, hub))
	httpMux.Handle("/ws", hub)
	httpMux.Handle("/metrics", promhttp.Handler())

	// Optional: serve the pre-built frontend from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *staticDir != "" {
		fs := http.FileServer(http.Dir(*staticDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *staticDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *staticDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving static files", "dir", *staticDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		st.Run(ctx, cacheSweepInterval)
		return nil
	})

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	if *watch {
		g.Go(func() error {
			return config.Watch(ctx, *configPath, func(next *config.Config) {
				eng.UpdatePolicy(next.Server)
				alertEngine.UpdateRules(next.Server.Alerts)
			})
		})
	}

	g.Go(func() error {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("passmint-server shutting down")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

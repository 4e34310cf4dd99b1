package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/savannahworks/uliza/internal/engine"
	"github.com/savannahworks/uliza/internal/observability"
	httpAdapter "github.com/savannahworks/uliza/pkg/adapters/http"
	redisAdapter "github.com/savannahworks/uliza/pkg/adapters/redis"
	"github.com/savannahworks/uliza/pkg/menus"
	"github.com/savannahworks/uliza/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the USSD gateway server",
	Long:  `Starts the menu engine behind the gateway callback endpoint, with Redis-backed sessions, a metrics endpoint and the background session janitor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := buildLogger(cfg)
		observability.InitMetrics()

		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.KeyPrefix),
			redisAdapter.WithGrace(cfg.Session.Grace.Std()),
		)
		defer store.Close()

		pingCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			return fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}

		// The built-in providers answer with sample data; deployments
		// integrating real platform services swap them here.
		registry := menus.NewRegistry(menus.SampleProviders())

		notifier := ports.NotifierFunc(func(ctx context.Context, to, message string) error {
			logger.Info("sms out", "to", to, "message", message)
			return nil
		})

		eng, err := engine.New(registry, store,
			engine.WithLogger(logger),
			engine.WithNotifier(notifier),
			engine.WithSessionTTL(cfg.Session.TTL.Std()),
			engine.WithStoreTimeout(cfg.Session.StoreTimeout.Std()),
			engine.WithMaxDepth(cfg.Session.MaxDepth),
			engine.WithMaxScreenLen(cfg.Session.MaxScreenLen),
		)
		if err != nil {
			return err
		}

		var limiter *httpAdapter.CallerLimiter
		if cfg.RateLimit.PerCallerPerSecond > 0 {
			limiter = httpAdapter.NewCallerLimiter(cfg.RateLimit.PerCallerPerSecond, cfg.RateLimit.Burst)
		}

		gateway := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           httpAdapter.NewHandler(eng, limiter, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		metrics := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           observability.MetricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		janitor := engine.NewJanitor(store, cfg.Janitor.Interval.Std(), cfg.Janitor.Timeout.Std(), logger)
		if err := janitor.Start(); err != nil {
			return fmt.Errorf("starting janitor: %w", err)
		}
		defer janitor.Stop()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("gateway listening",
				"addr", cfg.ListenAddr, "service_codes", registry.ServiceCodes())
			if err := gateway.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			logger.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := metrics.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := gateway.Shutdown(shutdownCtx); err != nil {
				logger.Warn("gateway shutdown", "err", err)
			}
			if err := metrics.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics shutdown", "err", err)
			}
			return nil
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

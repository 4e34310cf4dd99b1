package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/savannahworks/uliza/internal/engine"
	redisAdapter "github.com/savannahworks/uliza/pkg/adapters/redis"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Purge expired sessions once and exit",
	Long:  `Runs a single janitor pass against the Redis session store. The serve command runs this on a schedule; sweep exists for cron-style deployments and operations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := buildLogger(cfg)

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

		janitor := engine.NewJanitor(store, cfg.Janitor.Interval.Std(), cfg.Janitor.Timeout.Std(), logger)
		purged, err := janitor.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d expired session(s)\n", purged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

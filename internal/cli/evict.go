package cli

import (
	"fmt"

	"github.com/jakga/glotian/internal/config"
	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/eviction"
	"github.com/jakga/glotian/internal/log"
	"github.com/spf13/cobra"
)

var evictForce bool

var evictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Reclaim cache space from old synced items",
	Long: `Reclaim cache space from old synced items.

Runs one eviction pass: if cache usage is above the quota threshold, the
least recently used synced items that have not been touched in the
staleness window are removed from each table, and the activity log is
trimmed to its retention limit. Unsynced (pending) items are never
removed.

With --force the usage threshold is ignored and a pass always runs.`,
	Args: cobra.NoArgs,
	RunE: runEvict,
}

func init() {
	evictCmd.Flags().BoolVar(&evictForce, "force", false, "run a pass even below the usage threshold")
}

func runEvict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return trackCLIError("evict", fmt.Errorf("load config: %w", err))
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return trackCLIError("evict", fmt.Errorf("initialize database: %w", err))
	}
	defer func() { _ = database.Close() }()

	logger, err := log.New(paths.Logs)
	if err != nil {
		logger = log.NewDiscard()
	}
	defer func() { _ = logger.Close() }()

	probe := eviction.StoreSizeProbe{Path: database.Path(), Quota: cfg.Eviction.QuotaBytes}

	highWater := cfg.Eviction.HighWater
	if evictForce {
		// Any nonzero usage passes the threshold check.
		highWater = 1e-9
	}

	manager := eviction.NewManager(database, probe, logger, eviction.Options{
		HighWater:         highWater,
		EvictFraction:     cfg.Eviction.EvictFraction,
		StaleAfter:        cfg.Eviction.StaleAfter,
		ActivityRetention: cfg.Eviction.ActivityRetention,
	})

	res, err := manager.Run(cmd.Context())
	if err != nil {
		return trackCLIError("evict", fmt.Errorf("eviction pass: %w", err))
	}

	if res.Skipped {
		telemetryClient.TrackEvictionSkipped("estimate_unavailable")
		fmt.Println("Storage estimate unavailable; skipped the eviction pass.")
		return nil
	}
	if res.QuotaBefore < highWater {
		telemetryClient.TrackEvictionSkipped("below_threshold")
		fmt.Printf("Cache usage %.1f%% is below the %.0f%% threshold; nothing to do.\n",
			res.QuotaBefore*100, cfg.Eviction.HighWater*100)
		return nil
	}
	if !res.Evicted {
		fmt.Printf("Cache usage %.1f%% is above the threshold but nothing was old enough to remove.\n",
			res.QuotaBefore*100)
		return nil
	}

	telemetryClient.TrackEvictionCompleted(res.ItemsRemoved, res.QuotaBefore, res.QuotaAfter)
	fmt.Printf("Removed %d items; cache usage %.1f%% -> %.1f%%.\n",
		res.ItemsRemoved, res.QuotaBefore*100, res.QuotaAfter*100)
	return nil
}

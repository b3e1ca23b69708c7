package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jakga/glotian/internal/config"
	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/eviction"
	"github.com/jakga/glotian/internal/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync queue and cache health",
	Long: `Show sync queue and cache health.

Reports how many local changes are waiting to sync, which entities have
exhausted their retries, when the last sync completed, and how much of
the cache quota is in use.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("load config: %w", err))
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return trackCLIError("status", fmt.Errorf("initialize database: %w", err))
	}
	defer func() { _ = database.Close() }()

	headerStyle := lipgloss.NewStyle().Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	fmt.Println(headerStyle.Render("SYNC"))

	queued, err := database.CountQueue()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("count queue: %w", err))
	}
	retrying, err := database.CountQueueFailed()
	if err != nil {
		return trackCLIError("status", fmt.Errorf("count retries: %w", err))
	}
	fmt.Printf("  Queued changes:    %d\n", queued)
	fmt.Printf("  Awaiting retry:    %d\n", retrying)

	if cfg.Remote.UserID != "" {
		pending, err := database.CountPendingByUser(cfg.Remote.UserID)
		if err != nil {
			return trackCLIError("status", fmt.Errorf("count pending: %w", err))
		}
		failed, err := database.CountFailedByUser(cfg.Remote.UserID)
		if err != nil {
			return trackCLIError("status", fmt.Errorf("count failed: %w", err))
		}
		fmt.Printf("  Pending entities:  %d\n", pending)
		fmt.Printf("  Failed entities:   %d\n", failed)

		if failed > 0 {
			entities, err := database.ListFailedByUser(cfg.Remote.UserID)
			if err == nil {
				fmt.Println()
				for _, e := range entities {
					fmt.Printf("    %s\n", warnStyle.Render(fmt.Sprintf("%s/%s", e.Table, e.ID)))
				}
				fmt.Println("\n  Use 'glotian retry' to requeue failed entities.")
			}
		}
	}

	fmt.Printf("  Last sync:         %s\n", formatLastSync(database))

	fmt.Println()
	fmt.Println(headerStyle.Render("CACHE"))

	probe := eviction.StoreSizeProbe{Path: database.Path(), Quota: cfg.Eviction.QuotaBytes}
	usage, err := probe.Estimate(cmd.Context())
	if err != nil {
		fmt.Println("  Quota usage:       unavailable")
		return nil
	}
	fmt.Printf("  Quota usage:       %.1f%% (%s of %s)\n",
		usage.Ratio()*100, formatBytes(usage.Used), formatBytes(usage.Quota))
	if usage.Ratio() >= cfg.Eviction.HighWater {
		fmt.Println(warnStyle.Render("  Above the eviction threshold; old synced items will be reclaimed."))
	}

	return nil
}

// formatLastSync renders the recorded last-sync timestamp as relative time.
func formatLastSync(database *db.DB) string {
	raw, err := database.GetSyncMeta(models.SyncMetaLastSync)
	if err != nil || raw == "" {
		return "never"
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return formatTimeSince(t)
}

// formatTimeSince renders a timestamp as a coarse relative duration.
func formatTimeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}

// formatBytes renders a byte count in human units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

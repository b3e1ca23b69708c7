package cli

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jakga/glotian/internal/config"
	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/log"
	"github.com/jakga/glotian/internal/remote"
	"github.com/jakga/glotian/internal/sync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push queued local changes to the server",
	Long: `Push queued local changes to the server.

Drains the sync queue in order, one change at a time. Changes that fail
for transient reasons (timeouts, rate limits, server errors) are retried
on later runs, up to the retry limit. If the server copy of an entity is
newer than your local edit, the server copy wins and your edit is
recorded in the activity log.

Running sync while another sync is in progress is a no-op.

With --watch the command keeps running, syncing on a fixed interval and
immediately after connectivity returns.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

var syncWatch bool

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "keep running and sync periodically")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return trackCLIError("sync", fmt.Errorf("load config: %w", err))
	}
	if cfg.Remote.AccessToken == "" {
		return trackCLIError("sync", errors.New("not signed in: set GLOTIAN_ACCESS_TOKEN"))
	}
	if cfg.Remote.UserID == "" {
		return trackCLIError("sync", errors.New("no user selected: set GLOTIAN_USER_ID"))
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return trackCLIError("sync", fmt.Errorf("initialize database: %w", err))
	}
	defer func() { _ = database.Close() }()

	logger, err := log.New(paths.Logs)
	if err != nil {
		logger = log.NewDiscard()
	}
	defer func() { _ = logger.Close() }()

	backend := remote.NewClient(remote.ClientConfig{
		BaseURL:        cfg.Remote.BaseURL,
		AccessToken:    cfg.Remote.AccessToken,
		RequestTimeout: cfg.Remote.RequestTimeout,
		RateLimit:      cfg.Remote.RateLimit,
	})

	processor := sync.NewProcessor(database, backend, logger, sync.Options{
		MaxRetries: cfg.Sync.MaxRetries,
		LeaseTTL:   cfg.Sync.LeaseTTL,
	})

	if syncWatch {
		probe := connectivityProbe(cfg.Remote.BaseURL)
		scheduler := sync.NewScheduler(processor, cfg.Sync.Interval, probe)
		fmt.Printf("Watching; syncing every %s (ctrl-c to stop).\n", cfg.Sync.Interval)
		scheduler.Run(cmd.Context(), cfg.Remote.UserID)
		return nil
	}

	pending, err := database.CountQueue()
	if err != nil {
		return trackCLIError("sync", fmt.Errorf("count queue: %w", err))
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	fmt.Printf("%s (%d queued)\n", headerStyle.Render("SYNCING"), pending)

	start := time.Now()
	res := processor.Process(cmd.Context(), cfg.Remote.UserID)
	durationMs := time.Since(start).Milliseconds()

	telemetryClient.TrackSyncCompleted("cli", res.Synced, res.Failed, res.Conflicts, durationMs)

	remaining, err := database.CountQueue()
	if err != nil {
		remaining = 0
	}
	if pending > 0 && remaining == pending && res.Synced+res.Failed+res.Conflicts == 0 {
		fmt.Println("Another sync is already in progress; nothing was processed.")
		telemetryClient.TrackSyncSkipped("run_in_progress")
		return nil
	}

	fmt.Printf("  %d synced, %d failed, %d conflicts resolved\n", res.Synced, res.Failed, res.Conflicts)
	if remaining > 0 {
		fmt.Printf("  %d still queued for a later attempt\n", remaining)
	}
	if res.Failed > 0 {
		fmt.Println("\nUse 'glotian status' to inspect failures and 'glotian retry' to requeue them.")
	}
	return nil
}

// connectivityProbe builds a reconnect probe that dials the backend host.
func connectivityProbe(baseURL string) sync.ConnectivityProbe {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	host := u.Host
	if u.Port() == "" {
		if u.Scheme == "http" {
			host += ":80"
		} else {
			host += ":443"
		}
	}
	return sync.DialProbe(host)
}

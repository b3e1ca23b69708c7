package cli

import (
	"errors"
	"fmt"

	"github.com/jakga/glotian/internal/config"
	"github.com/jakga/glotian/internal/db"
	"github.com/jakga/glotian/internal/sync"
	"github.com/spf13/cobra"
)

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Requeue entities that gave up syncing",
	Long: `Requeue entities that gave up syncing.

Entities marked failed have exhausted their retry budget. This command
marks them pending again and puts a fresh change on the queue, with the
retry counter reset. Run 'glotian sync' afterwards to push them.`,
	Args: cobra.NoArgs,
	RunE: runRetry,
}

func runRetry(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return trackCLIError("retry", fmt.Errorf("load config: %w", err))
	}
	if cfg.Remote.UserID == "" {
		return trackCLIError("retry", errors.New("no user selected: set GLOTIAN_USER_ID"))
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return trackCLIError("retry", fmt.Errorf("initialize database: %w", err))
	}
	defer func() { _ = database.Close() }()

	mutator := sync.NewMutator(database)
	count, err := mutator.ResetFailed(cfg.Remote.UserID)
	if err != nil {
		return trackCLIError("retry", fmt.Errorf("reset failed entities: %w", err))
	}

	telemetryClient.TrackFailedReset(count)

	if count == 0 {
		fmt.Println("No failed entities to requeue.")
		return nil
	}
	fmt.Printf("Requeued %d failed entit%s. Run 'glotian sync' to push them.\n",
		count, pluralY(count))
	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

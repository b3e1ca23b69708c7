package cli

import (
	"fmt"
	"strings"

	"github.com/jakga/glotian/internal/models"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Delete a cached item and queue the remote delete",
	Long: `Delete a cached item and queue the remote delete.

Tables: ` + strings.Join(models.EntityTables(), ", ") + `

The item disappears locally right away; the server copy is removed the
next time sync runs.`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	table, id := args[0], args[1]
	if !containsString(models.EntityTables(), table) {
		return trackCLIError("delete", fmt.Errorf("unknown table %q (valid: %s)",
			table, strings.Join(models.EntityTables(), ", ")))
	}

	cfg, database, mutator, err := openMutator("delete")
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if err := mutator.DeleteEntity(cfg.Remote.UserID, table, id); err != nil {
		return trackCLIError("delete", fmt.Errorf("delete %s/%s: %w", table, id, err))
	}

	fmt.Printf("Deleted %s/%s (remote delete queued).\n", table, id)
	return nil
}

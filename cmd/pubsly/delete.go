package main

import (
	"github.com/spf13/cobra"

	"github.com/ascsn/pubsly/internal/collection"
)

var (
	deletePubs []string
	deletePres []string
)

func init() {
	deleteCmd.Flags().StringSliceVar(&deletePubs, "pub", nil, "Publication ids to delete (comma-separated)")
	deleteCmd.Flags().StringSliceVar(&deletePres, "pres", nil, "Presentation ids to delete (comma-separated)")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete publications and presentations by id",
	Long: `Delete entries by exact id. Ids that match nothing are ignored and the
collection is only written when something was removed.

Examples:
  pubsly delete --pub 10.1103/PhysRevC.108.014301
  pubsly delete --pub 2101.00001,manual-1714564800000 --pres 6f1c...`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

// DeleteResponse is the response for the delete command.
type DeleteResponse struct {
	Status  string                  `json:"status"`
	Deleted collection.DeleteCounts `json:"deleted"`
}

func runDelete(cmd *cobra.Command, args []string) error {
	if len(deletePubs) == 0 && len(deletePres) == 0 {
		exitWithError(ExitError, "nothing to delete: pass --pub and/or --pres")
	}

	cfg := mustLoadConfig()
	logger := newLogger(cfg)
	store, blobs := mustOpenCollection(cfg, logger)
	defer blobs.Close()

	counts, err := store.BulkDelete(deletePubs, deletePres)
	if err != nil {
		exitWithError(ExitError, "deleting: %v", err)
	}

	status := "deleted"
	if counts.Publications == 0 && counts.Presentations == 0 {
		status = "unchanged"
	}
	outputResult(DeleteResponse{Status: status, Deleted: counts}, func() {
		outputHuman("Deleted %s and %s.\n",
			plural(counts.Publications, "publication"),
			plural(counts.Presentations, "presentation"))
	})
	return nil
}

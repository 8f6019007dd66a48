package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursespider/internal/store"
)

func newImportCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Import courses from JSONL files, skipping duplicates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DatabasePath())
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			totalImported, totalSkipped := 0, 0
			for _, path := range args {
				imported, skipped, err := st.ImportJSONL(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				totalImported += imported
				totalSkipped += skipped
				fmt.Fprintf(out, "%s: %d imported, %d skipped\n", path, imported, skipped)
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "Total: %d imported, %d skipped\n", totalImported, totalSkipped)
			}
			return nil
		},
	}
}

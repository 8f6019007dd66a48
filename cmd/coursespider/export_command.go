package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"coursespider/internal/export"
	"coursespider/internal/store"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a JavaScript data file",
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

			if dir := filepath.Dir(outputPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			file, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outputPath, err)
			}

			summary, err := export.WriteJS(cmd.Context(), st, file, time.Now())
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d courses (%d lessons, %d hours) to %s\n",
				summary.Courses, summary.Lessons, summary.Hours, outputPath)
			fmt.Fprintf(out, "Categories: %d, languages: %d\n", summary.Categories, summary.Languages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "courses-data.js", "Destination file")
	return cmd
}

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coursespider/internal/classify"
	"coursespider/internal/collector"
	"coursespider/internal/jobs"
	"coursespider/internal/logging"
	"coursespider/internal/notify"
	"coursespider/internal/store"
	"coursespider/internal/youtube"
)

func newCollectCommand(cmdCtx *commandContext) *cobra.Command {
	var perCategory int
	var categories []string
	var language string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Search YouTube and import new courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}

			if perCategory <= 0 {
				perCategory = cfg.Collector.CoursesPerCategory
			}
			// Without explicit targets, sweep the whole category list.
			if len(categories) == 0 && len(keywords) == 0 {
				categories = classify.Categories()
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			st, err := store.Open(cfg.DatabasePath())
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			registry := jobs.NewRegistry()
			col := collector.New(cfg, youtube.New(cfg, logger), st, registry, notify.NewService(cfg), logger)

			job := registry.Create(jobs.Params{
				Total:          collector.EstimateTotal(categories, keywords, perCategory),
				Language:       language,
				CustomKeywords: keywords,
			})

			runErr := col.Run(ctx, collector.RunParams{
				JobID:              job.ID,
				CoursesPerCategory: perCategory,
				Categories:         categories,
				Language:           language,
				CustomKeywords:     keywords,
			})

			out := cmd.OutOrStdout()
			if finished, ok := registry.Get(job.ID); ok {
				for _, line := range finished.Logs {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "Collected %d of %d\n", finished.Collected, finished.Total)
			}
			return runErr
		},
	}

	cmd.Flags().IntVar(&perCategory, "per-category", 0, "Courses to admit per category (default from config)")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Categories to collect (default: all)")
	cmd.Flags().StringVar(&language, "language", "", "Restrict search results to a language code")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Extra search keywords, collected under the Custom category")
	return cmd
}

package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"coursespider/internal/store"
)

func newStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
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

			stats, err := st.Statistics(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Courses: %d   Lessons: %d   Hours: %d\n\n",
				stats.TotalCourses, stats.TotalLessons, stats.TotalDurationHours)

			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Courses"},
				countRows(stats.ByCategory),
				[]columnAlignment{alignLeft, alignRight},
			))
			fmt.Fprintln(out, renderTable(
				[]string{"Language", "Courses"},
				countRows(stats.ByLanguage),
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func countRows(counts map[string]int) [][]string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Busiest first, then alphabetical.
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	return rows
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	stats, err := e.store.Stats(cmd.Context(), store.StatsParams{
		DBPath:     e.dbPath,
		Now:        e.now,
		WeekStart:  clock.StartOfWeek(e.now),
		MonthStart: clock.StartOfMonth(e.now),
	})
	if err != nil {
		exitErr("stats", err)
	}

	printJSON(stats)
}

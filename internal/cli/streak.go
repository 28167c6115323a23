package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/streak"
)

func init() {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the capture streak",
		Long:  "Show the current and longest capture streak. A newly reached milestone is reported once and then marked as celebrated.",
		Run:   runStreak,
	}

	cmd.Flags().Bool("no-celebrate", false, "Report a new milestone without marking it celebrated")

	RootCmd.AddCommand(cmd)
}

func runStreak(cmd *cobra.Command, args []string) {
	noCelebrate, _ := cmd.Flags().GetBool("no-celebrate")

	e := openEnv()
	defer e.Close()

	dates, err := e.store.CaptureDates(cmd.Context())
	if err != nil {
		exitErr("streak", err)
	}

	tracker := streak.NewTracker(e.store, logger)
	stats, err := tracker.Refresh(cmd.Context(), dates, e.now)
	if err != nil {
		exitErr("streak", err)
	}

	if stats.NewMilestone > 0 && !noCelebrate {
		if err := tracker.Celebrate(cmd.Context(), stats.NewMilestone, e.now); err != nil {
			exitErr("streak", err)
		}
	}

	printJSON(stats)
}

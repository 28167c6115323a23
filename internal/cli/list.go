package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Run:   runList,
	}

	cmd.Flags().StringP("category", "t", "", "Filter by category ID")
	cmd.Flags().Bool("fav", false, "Only favorites")
	cmd.Flags().String("on", "", "Only entries captured on this day (YYYY-MM-DD, or 'today')")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().Bool("ids-only", false, "Only output entry IDs")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	fav, _ := cmd.Flags().GetBool("fav")
	onStr, _ := cmd.Flags().GetString("on")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	e := openEnv()
	defer e.Close()

	var on *time.Time
	switch onStr {
	case "":
	case "today":
		d := clock.StartOfDay(e.now)
		on = &d
	default:
		d, err := clock.ParseDay(onStr, e.loc)
		if err != nil {
			exitErr("parse --on", err)
		}
		on = &d
	}

	entries, err := e.store.List(cmd.Context(), store.ListParams{
		CategoryID: category,
		Favorites:  fav,
		On:         on,
		Limit:      limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, entry := range entries {
			fmt.Println(entry.ID)
		}
		return
	}

	printJSON(entries)
}

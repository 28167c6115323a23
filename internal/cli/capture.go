package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "capture [content]",
		Short: "Capture a learning",
		Long:  "Capture a learning. Content can be a positional arg or piped via stdin.",
		Run:   runCapture,
	}

	cmd.Flags().String("date", "", "Day the learning belongs to, YYYY-MM-DD (default: today)")
	cmd.Flags().StringP("category", "t", "", "Comma-separated category IDs or names")
	cmd.Flags().Bool("fav", false, "Mark as favorite")
	cmd.Flags().StringP("reflect", "r", "", "Attach a reflection right away (starts review)")

	RootCmd.AddCommand(cmd)
}

func runCapture(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")
	catStr, _ := cmd.Flags().GetString("category")
	fav, _ := cmd.Flags().GetBool("fav")
	note, _ := cmd.Flags().GetString("reflect")

	// Get content: positional arg first, then check stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("capture", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	e := openEnv()
	defer e.Close()

	var day time.Time
	if dateStr != "" {
		d, err := clock.ParseDay(dateStr, e.loc)
		if err != nil {
			exitErr("parse --date", err)
		}
		if d.After(e.now) {
			exitErr("capture", fmt.Errorf("date %s is in the future", dateStr))
		}
		day = d
	}

	entry, err := e.store.Capture(cmd.Context(), store.CaptureParams{
		Content:     content,
		CaptureDate: day,
		Categories:  splitList(catStr),
		Favorite:    fav,
	})
	if err != nil {
		exitErr("capture", err)
	}
	logger.Debug("entry captured", "id", entry.ID, "day", clock.DayKey(entry.CaptureDate))

	if strings.TrimSpace(note) != "" {
		entry, err = reflectEntry(cmd, e, entry.ID, note)
		if err != nil {
			exitErr("reflect", err)
		}
	}

	printJSON(entry)
}

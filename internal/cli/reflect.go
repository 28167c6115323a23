package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reflect <id> [note]",
		Short: "Attach a reflection to an entry",
		Long:  "Attach a reflection to an entry. The first reflection schedules the entry for review tomorrow; later ones only replace the note.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runReflect,
	}

	RootCmd.AddCommand(cmd)
}

func runReflect(cmd *cobra.Command, args []string) {
	id := args[0]
	note := strings.Join(args[1:], " ")
	if note == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			note = string(b)
		}
	}
	if strings.TrimSpace(note) == "" {
		exitErr("reflect", fmt.Errorf("note is required (positional arg or stdin)"))
	}

	e := openEnv()
	defer e.Close()

	entry, err := reflectEntry(cmd, e, id, note)
	if err != nil {
		exitErr("reflect", err)
	}
	printJSON(entry)
}

func reflectEntry(cmd *cobra.Command, e *env, id, note string) (*model.Entry, error) {
	return e.store.Reflect(cmd.Context(), store.ReflectParams{
		ID:   id,
		Note: note,
		Activate: func(entry model.Entry) model.Entry {
			logger.Info("review started", "id", entry.ID)
			return e.sched.Activate(entry, e.now)
		},
	})
}

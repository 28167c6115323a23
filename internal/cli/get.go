package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/review"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	entry, err := e.store.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	printJSON(struct {
		*model.Entry
		Due bool `json:"due"`
	}{entry, review.IsDue(*entry, e.now)})
}

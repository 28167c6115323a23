package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	RootCmd.AddCommand(cmd)

	favCmd := &cobra.Command{
		Use:   "fav <id>",
		Short: "Mark an entry as favorite",
		Args:  cobra.ExactArgs(1),
		Run:   runFav,
	}
	favCmd.Flags().Bool("off", false, "Remove the favorite mark")

	RootCmd.AddCommand(favCmd)
}

func runRm(cmd *cobra.Command, args []string) {
	hard, _ := cmd.Flags().GetBool("hard")

	e := openEnv()
	defer e.Close()

	if err := e.store.Rm(cmd.Context(), store.RmParams{ID: args[0], Hard: hard}); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}

func runFav(cmd *cobra.Command, args []string) {
	off, _ := cmd.Flags().GetBool("off")

	e := openEnv()
	defer e.Close()

	if err := e.store.SetFavorite(cmd.Context(), args[0], !off); err != nil {
		exitErr("fav", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"favorite":%t}`+"\n", args[0], !off)
}

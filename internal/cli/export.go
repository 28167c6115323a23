package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as JSON",
		Long:  "Export entries, review state included, as a JSON array. Filter by category with -t.",
		Run:   runExport,
	}

	cmd.Flags().StringP("category", "t", "", "Filter by category ID")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")

	e := openEnv()
	defer e.Close()

	entries, err := e.store.ExportAll(cmd.Context(), category)
	if err != nil {
		exitErr("export", err)
	}
	if entries == nil {
		entries = []model.Entry{}
	}

	printJSON(entries)
}

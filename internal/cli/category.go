package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/store"
)

func init() {
	catCmd := &cobra.Command{
		Use:   "category",
		Short: "Category management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Run:   runCategoryList,
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		Run:   runCategoryAdd,
	}
	addCmd.Flags().String("icon", "", "Icon name")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a user category",
		Args:  cobra.ExactArgs(1),
		Run:   runCategoryRm,
	}

	catCmd.AddCommand(listCmd, addCmd, rmCmd)
	RootCmd.AddCommand(catCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	cats, err := e.store.Categories(cmd.Context())
	if err != nil {
		exitErr("list categories", err)
	}

	printJSON(cats)
}

func runCategoryAdd(cmd *cobra.Command, args []string) {
	icon, _ := cmd.Flags().GetString("icon")

	e := openEnv()
	defer e.Close()

	c, err := e.store.AddCategory(cmd.Context(), store.CategoryParams{Name: args[0], Icon: icon})
	if err != nil {
		exitErr("add category", err)
	}

	printJSON(c)
}

func runCategoryRm(cmd *cobra.Command, args []string) {
	e := openEnv()
	defer e.Close()

	if err := e.store.RemoveCategory(cmd.Context(), args[0]); err != nil {
		exitErr("remove category", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}

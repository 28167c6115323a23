package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/recall/internal/config"
	"github.com/rcliao/recall/internal/review"
)

func init() {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run:   runConfigShow,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Run:   runConfigInit,
	}
	initCmd.Flags().Int("threshold", review.DefaultGraduationThreshold, "Graduation threshold")
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	cfgCmd.AddCommand(showCmd, initCmd)
	RootCmd.AddCommand(cfgCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if cfg.DBPath == "" {
		cfg.DBPath = getDBPath(cfg)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		exitErr("marshal config", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", getConfigPath(), b)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	threshold, _ := cmd.Flags().GetInt("threshold")
	force, _ := cmd.Flags().GetBool("force")

	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		exitErr("config init", fmt.Errorf("%s already exists (use --force)", path))
	}

	cfg := config.Default()
	cfg.Review.GraduationThreshold = threshold
	if err := cfg.Validate(); err != nil {
		exitErr("config init", err)
	}
	if err := config.Save(path, cfg); err != nil {
		exitErr("save config", err)
	}
	logger.Info("config written", "path", path)
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", path)
}

// Package cli implements the recall CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/config"
	"github.com/rcliao/recall/internal/review"
	"github.com/rcliao/recall/internal/store"
)

var (
	dbPath     string
	configPath string
	nowFlag    string
	verbose    bool
	logger     = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Capture learnings and review them on a spaced schedule",
	Long:  "A tiny journal for short learnings. Reflect on an entry to start reviewing it; recall resurfaces it after 1, 7, 16 and 35 days.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $RECALL_DB, config db_path or ~/.recall/recall.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $RECALL_CONFIG or ~/.recall/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "Pretend the current time is this (YYYY-MM-DD or RFC3339)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("RECALL_CONFIG"); env != "" {
		return env
	}
	return config.DefaultPath()
}

func loadConfig() config.Config {
	path := getConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	logger.Debug("config loaded", "path", path, "threshold", cfg.Review.GraduationThreshold)
	return cfg
}

func getDBPath(cfg config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("RECALL_DB"); env != "" {
		return env
	}
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	return filepath.Join(config.DefaultDir(), "recall.db")
}

// appClock returns the clock commands read "now" from.
func appClock(loc *time.Location) clock.Clock {
	if nowFlag == "" {
		return clock.System{}
	}
	if t, err := time.Parse(time.RFC3339, nowFlag); err == nil {
		return clock.Fixed(t.In(loc))
	}
	t, err := clock.ParseDay(nowFlag, loc)
	if err != nil {
		exitErr("parse --now", fmt.Errorf("%q is neither YYYY-MM-DD nor RFC3339", nowFlag))
	}
	return clock.Fixed(t)
}

// env bundles what most commands need.
type env struct {
	cfg    config.Config
	store  *store.SQLiteStore
	sched  *review.Scheduler
	loc    *time.Location
	now    time.Time
	dbPath string
}

func openEnv() *env {
	cfg := loadConfig()
	loc, err := cfg.Location()
	if err != nil {
		exitErr("config", err)
	}
	sched, err := review.NewScheduler(cfg.Review)
	if err != nil {
		exitErr("config", err)
	}

	path := getDBPath(cfg)
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		exitErr("open store", err)
	}
	c := appClock(loc)
	s.SetLocation(loc)
	s.SetClock(c)
	logger.Debug("store opened", "path", path, "location", loc.String())

	return &env{
		cfg:    cfg,
		store:  s,
		sched:  sched,
		loc:    loc,
		now:    c.Now().In(loc),
		dbPath: path,
	}
}

func (e *env) Close() { e.store.Close() }

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

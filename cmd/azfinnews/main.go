package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/azfin-hq/azfinnews/internal/app"
	"github.com/azfin-hq/azfinnews/internal/config"
	"github.com/azfin-hq/azfinnews/internal/logger"
	"github.com/azfin-hq/azfinnews/internal/storage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagPruneOlderThan string

var rootCmd = &cobra.Command{
	Use:   "azfinnews",
	Short: "Terminal reader for APA.az economy news",
	Long:  "azfinnews polls the APA.az economy section in the background and lets you browse, page through, and read articles from the terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("azfinnews %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop old entries from the seen-log",
	Long: `Delete seen-log entries older than the retention period.

Uses keep_days from config (default: 7) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		retention := cfg.Retention
		if flagPruneOlderThan != "" {
			d, err := parseRetention(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		dropped, remaining, err := pruneSeenLog(cfg, retention)
		if err != nil {
			return err
		}

		if dropped == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d entr%s older than %s; %d remaining.\n",
				dropped, plural(dropped), formatRetention(retention), remaining)
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 3d, 72h)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pruneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.InfoObj("reader starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := app.NewReader(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize reader", "error", err)
		return err
	}

	if err := reader.Run(ctx); err != nil {
		return fmt.Errorf("reader run: %w", err)
	}
	return nil
}

// pruneSeenLog opens the store twice: once without a cutoff to count the full
// log, then with the requested retention, which drops the stale entries.
func pruneSeenLog(cfg *config.Config, retention time.Duration) (dropped, remaining int, err error) {
	full, err := storage.NewStore(cfg.StorageType, cfg.SeenLogPath, storage.Options{
		Retention: 100 * 365 * 24 * time.Hour,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("open seen-log: %w", err)
	}
	total := full.Len()
	if err := full.Close(); err != nil {
		return 0, 0, fmt.Errorf("close seen-log: %w", err)
	}

	pruned, err := storage.NewStore(cfg.StorageType, cfg.SeenLogPath, storage.Options{
		Retention: retention,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("reopen seen-log: %w", err)
	}
	remaining = pruned.Len()
	if err := pruned.Persist(); err != nil {
		return 0, 0, fmt.Errorf("persist seen-log: %w", err)
	}
	if err := pruned.Close(); err != nil {
		return 0, 0, fmt.Errorf("close seen-log: %w", err)
	}

	return total - remaining, remaining, nil
}

// parseRetention accepts either a day suffix ("3d") or anything
// time.ParseDuration understands.
func parseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("retention must be positive")
	}
	return d, nil
}

func formatRetention(d time.Duration) string {
	if days := int(d.Hours() / 24); days > 0 && d == time.Duration(days)*24*time.Hour {
		return fmt.Sprintf("%dd", days)
	}
	return d.String()
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

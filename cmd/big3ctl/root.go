package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/big3stats/internal"
	"github.com/2beens/big3stats/internal/big3"
	"github.com/2beens/big3stats/internal/config"
	"github.com/2beens/big3stats/internal/logging"
	"github.com/2beens/big3stats/internal/source"
	"github.com/2beens/big3stats/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	env          string
	cfgFile      string
	xlsxPath     string
	sheetName    string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "big3ctl",
	Short: "Inspect the BIG3 (bench press, squat, deadlift) training log",
	Long: `big3ctl reads the BIG3 training log from the configured Google Sheet,
or from a local .xlsx export, and prints the summary, chart series or decoded rows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := parseFormat(outputFormat); err != nil {
			return err
		}
		// logrus stays on stderr, stdout carries the command output
		log.SetLevel(logging.GetLevel(logLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "config environment [dev | development | prod | production]")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config.toml", "path for the TOML config file")
	rootCmd.PersistentFlags().StringVar(&xlsxPath, "xlsx", "", "read the log from this .xlsx export instead of the configured source")
	rootCmd.PersistentFlags().StringVar(&sheetName, "sheet", "", "sheet name inside the .xlsx export (default: first sheet)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "table", "output format [table | json | yaml]")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level, logs go to stderr")
}

// tableSource uses --xlsx when given, the config file otherwise.
func tableSource() (internal.TableSource, big3.Padding, error) {
	if xlsxPath != "" {
		return source.NewXLSXSource(xlsxPath, sheetName), big3.DefaultPadding, nil
	}

	cfg, err := config.Load(env, cfgFile)
	if err != nil {
		return nil, big3.Padding{}, fmt.Errorf("load config: %w", err)
	}
	return internal.NewTableSource(cfg, &http.Client{Timeout: 30 * time.Second}), cfg.Padding, nil
}

// loadSnapshot does one full fetch and decode.
func loadSnapshot(ctx context.Context) (*big3.Snapshot, big3.Padding, error) {
	src, padding, err := tableSource()
	if err != nil {
		return nil, padding, err
	}

	loader := big3.NewLoader(src, metrics.NewManager("big3", "cli", prometheus.NewRegistry()))
	defer loader.Close()

	snapshot, err := loader.Refresh(ctx)
	if err != nil {
		return nil, padding, fmt.Errorf("load big3 log: %w", err)
	}
	return snapshot, padding, nil
}

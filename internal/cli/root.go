// Package cli implements the patchdash commands.
package cli

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/patchdash/internal/annotations"
	"github.com/rcliao/patchdash/internal/config"
	"github.com/rcliao/patchdash/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	cfgFile    string
	formatFlag string

	v      = config.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "patchdash",
	Short: "Maintenance patch scheduling dashboard",
	Long: "A terminal dashboard for scheduling electrical maintenance patches against network load and crew availability. " +
		"Run without a subcommand for the interactive view.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run:               runUI,
}

func init() {
	fs := RootCmd.PersistentFlags()
	fs.StringVar(&cfgFile, "config", "", "Config file (default: ./patchdash.yaml or ~/.patchdash/patchdash.yaml)")
	fs.String("api", "", "Scheduling service base URL (default: http://localhost:5000/api)")
	fs.StringP("db", "d", "", "Annotation database path (default: $PATCHDASH_DB_PATH or ~/.patchdash/annotations.db)")
	fs.String("log-file", "", "Log file (default: ~/.patchdash/patchdash.log)")
	fs.String("log-level", "", "Log level: debug, info, warn, error")
	fs.String("locale", "", "Locale for day names, e.g. de_DE")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	fs.StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	l, err := logging.Init(logging.Options{
		File:        c.Log.File,
		Level:       c.Log.Level,
		Development: c.Log.Development,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	cfg, logger = c, l
	return nil
}

func openStore() (*annotations.SQLiteStore, error) {
	return annotations.NewSQLiteStore(cfg.DB.Path)
}

func exitErr(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func jsonOutput() bool { return formatFlag == "json" }

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

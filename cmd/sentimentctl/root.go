package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sentiment-service/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	verbose    bool
}

// cfg is populated before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sentimentctl",
	Short: "Manage datasets and models for the sentiment service",
	Long:  "sentimentctl imports labeled text datasets, trains the TF-IDF +\nlogistic regression model and runs predictions from the command line.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&rootFlags.configPath, "config", "c", "configs/config.yml", "Path to the YAML config")
	f.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.Version = version
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if rootFlags.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	loaded, err := config.LoadConfig(rootFlags.configPath)
	if err != nil {
		// Running without a config file is fine unless one was asked for.
		if !cmd.Flags().Changed("config") && errors.Is(err, fs.ErrNotExist) {
			logrus.Debugf("No config at %s, using defaults", rootFlags.configPath)
			cfg = config.Default()
			return nil
		}
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/preload/pkg/cli"
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/telemetry"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "preload",
	Short: "Preload - account import verifier",
	Long: `Preload checks a batch of interviewer and supervisor accounts against
the accounts that already exist before the batch is imported.

Every row is checked for:
  - Login, email, phone and name formats
  - Password strength
  - Duplicates within the batch and collisions with existing accounts
  - Roles, supervisor references and workspace membership

Violations are reported with stable PLU codes so downstream tooling can
filter on them.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the status the command
// asked for.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "preload.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig (re)loads the process configuration from the config file,
// falling back to defaults when it does not exist, and returns it.
func loadConfig() (*config.Config, error) {
	if err := config.ReloadConfig(cfgFile); err != nil {
		return nil, cli.NewCommandError("config", err)
	}
	cfg := config.GetConfig()
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

func buildInfo() telemetry.BuildInfo {
	return telemetry.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mercator-hq/preload/pkg/cli"
	"mercator-hq/preload/pkg/config"
	"mercator-hq/preload/pkg/verifier"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file",
	Long: `Load the config file, apply PRELOAD_* environment overrides, and check
every field. Patterns are compiled the same way verify compiles them.

Examples:
  preload config validate --config preload.yaml`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration verify would use, with defaults and environment
overrides applied, as YAML.`,
	Args: cobra.NoArgs,
	RunE: showConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "✗ %s has %d problem(s):\n", cfgFile, len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Fprintf(out, "  - %s\n", fe.Error())
			}
			return cli.NewExitError(cli.ExitFatal, nil)
		}
		return cli.NewCommandError("config validate", err)
	}

	if _, err := verifier.NewPolicy(cfg); err != nil {
		fmt.Fprintf(out, "✗ %s: %v\n", cfgFile, err)
		return cli.NewExitError(cli.ExitFatal, nil)
	}

	fmt.Fprintf(out, "✓ %s is valid\n", cfgFile)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return cli.NewCommandError("config show", err)
	}
	return enc.Close()
}

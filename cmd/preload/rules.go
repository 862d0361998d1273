package main

import (
	"github.com/spf13/cobra"

	"mercator-hq/preload/pkg/cli"
	"mercator-hq/preload/pkg/rules"
)

var rulesFlags struct {
	format string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalog",
	Long: `List every rule with its code, the field it reports on, whether it
applies to single rows or the whole batch, and what it checks.

Examples:
  # Print the catalog as a table
  preload rules

  # Print it as JSON
  preload rules --format json`,
	Args: cobra.NoArgs,
	RunE: listRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesFlags.format, "format", "f", "text", "output format: text, json")
}

func listRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(rulesFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	catalog := rules.Describe()
	table := cli.Table{Headers: []string{"CODE", "FIELD", "SCOPE", "DESCRIPTION"}}
	for _, d := range catalog {
		table.Append(d.Code, string(d.Field), string(d.Scope), d.Description)
	}
	return cli.Write(cmd.OutOrStdout(), format, table, catalog)
}

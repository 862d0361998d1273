/*
Package cli provides helpers shared by the preload commands.

Errors:

Commands return typed errors so main can pick the exit code:

	return cli.NewExitError(cli.ExitViolations, errors.New("3 rows have violations"))

ExitCode maps any error to a process exit code: nil is 0, an ExitError
carries its own code, and everything else is ExitFatal.

Output Formatting:

Listing commands print either an aligned text table or JSON:

	format, err := cli.ParseOutputFormat(flag)
	table := cli.Table{Headers: []string{"ID", "ROWS"}}
	table.Append(id, strconv.Itoa(rows))
	return cli.Write(os.Stdout, format, table, summaries)

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli

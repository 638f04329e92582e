package command

import (
	"io"

	"github.com/spf13/cobra"
)

// OutputFormatter is the standardized interface all output formatters
// should use
type OutputFormatter interface {
	// getErrorOutput returns the CLI command error
	getErrorOutput() string

	// getCommandOutput returns the CLI command output
	getCommandOutput() string

	// SetError sets the encountered error
	SetError(err error)

	// SetCommandResult sets the result of the command execution
	SetCommandResult(result CommandResult)

	// WriteOutput writes the result / error output
	WriteOutput()
}

type CommandResult interface {
	GetOutput() string
}

func shouldOutputJSON(baseCmd *cobra.Command) bool {
	flag := baseCmd.Flag(JSONOutputFlag)

	return flag != nil && flag.Changed
}

// InitializeOutputter returns the formatter selected by the json flag,
// writing to the command's output streams
func InitializeOutputter(cmd *cobra.Command) OutputFormatter {
	if shouldOutputJSON(cmd) {
		return newJSONOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return newCLIOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func newCommonOutputFormatter(out, errOut io.Writer) commonOutputFormatter {
	return commonOutputFormatter{
		out:    out,
		errOut: errOut,
	}
}

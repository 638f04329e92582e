package helper

import (
	"github.com/hashicorp/go-hclog"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/0xPolygon/polygon-devpool/command"
)

// FormatList formats a list, using a specific blank value replacement
func FormatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"

	return columnize.Format(in, columnConf)
}

// FormatKV formats key value pairs:
//
// Key = Value
//
// Key = <none>
func FormatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "

	return columnize.Format(in, columnConf)
}

// RegisterJSONOutputFlag registers the --json output setting for all child commands
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

// RegisterLogLevelFlag registers the --log-level setting for all child commands
func RegisterLogLevelFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.LogLevelFlag,
		command.DefaultLogLevel,
		"the log level for console output",
	)
}

// NewLogger builds the command logger from the log level flag.
// Logs go to stderr as JSON when the json flag is set.
func NewLogger(cmd *cobra.Command, name string) hclog.Logger {
	level := command.DefaultLogLevel
	if flag := cmd.Flag(command.LogLevelFlag); flag != nil {
		level = flag.Value.String()
	}

	jsonFormat := false
	if flag := cmd.Flag(command.JSONOutputFlag); flag != nil {
		jsonFormat = flag.Changed
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		Output:     cmd.ErrOrStderr(),
		JSONFormat: jsonFormat,
	})
}

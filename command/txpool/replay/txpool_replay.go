package replay

import (
	"github.com/armon/go-metrics"
	"github.com/spf13/cobra"

	"github.com/0xPolygon/polygon-devpool/command"
	"github.com/0xPolygon/polygon-devpool/command/helper"
)

func GetCommand() *cobra.Command {
	txPoolReplayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replays a scenario file against an in-memory pool and prints the ordered pending and queued transactions",
		Args:  cobra.NoArgs,
		Run:   runCommand,
	}

	setFlags(txPoolReplayCmd)
	setRequiredFlags(txPoolReplayCmd)

	return txPoolReplayCmd
}

func setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&params.scenarioPath,
		scenarioFlag,
		"",
		"the scenario file (.hcl, .json, .yaml or .yml)",
	)

	cmd.Flags().BoolVar(
		&params.metrics,
		metricsFlag,
		false,
		"collect the pool metrics in memory and print them",
	)
}

func setRequiredFlags(cmd *cobra.Command) {
	for _, requiredFlag := range params.getRequiredFlags() {
		_ = cmd.MarkFlagRequired(requiredFlag)
	}
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	if err := params.init(); err != nil {
		outputter.SetError(err)

		return
	}

	var inm *metrics.InmemSink

	if params.metrics {
		sink, err := setupMetrics()
		if err != nil {
			outputter.SetError(err)

			return
		}

		inm = sink
	}

	result, err := replayScenario(helper.NewLogger(cmd, "devpool"), params.scenario)
	if err != nil {
		outputter.SetError(err)

		return
	}

	if inm != nil {
		result.Metrics = collectMetrics(inm)
	}

	outputter.SetCommandResult(result)
}

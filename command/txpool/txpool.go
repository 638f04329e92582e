package txpool

import (
	"github.com/spf13/cobra"

	"github.com/0xPolygon/polygon-devpool/command/txpool/replay"
)

func GetCommand() *cobra.Command {
	txPoolCmd := &cobra.Command{
		Use:   "txpool",
		Short: "Top level command for driving an in-memory transaction pool. Only accepts subcommands.",
	}

	registerSubcommands(txPoolCmd)

	return txPoolCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	// txpool replay
	baseCmd.AddCommand(replay.GetCommand())
}

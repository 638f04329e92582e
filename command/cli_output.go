package command

import (
	"fmt"
	"io"
)

type CLIOutput struct {
	commonOutputFormatter
}

func newCLIOutput(out, errOut io.Writer) *CLIOutput {
	return &CLIOutput{
		commonOutputFormatter: newCommonOutputFormatter(out, errOut),
	}
}

func (cli *CLIOutput) WriteOutput() {
	if cli.errorOutput != nil {
		_, _ = fmt.Fprintln(cli.errOut, cli.getErrorOutput())

		return
	}

	if cli.commandOutput == nil {
		return
	}

	_, _ = fmt.Fprintln(cli.out, cli.getCommandOutput())
}

func (cli *CLIOutput) getErrorOutput() string {
	return cli.errorOutput.Error()
}

func (cli *CLIOutput) getCommandOutput() string {
	return cli.commandOutput.GetOutput()
}

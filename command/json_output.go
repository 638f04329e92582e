package command

import (
	"encoding/json"
	"fmt"
	"io"
)

type JSONOutput struct {
	commonOutputFormatter
}

func (jo *JSONOutput) WriteOutput() {
	if jo.errorOutput != nil {
		_, _ = fmt.Fprintln(jo.errOut, jo.getErrorOutput())

		return
	}

	_, _ = fmt.Fprintln(jo.out, jo.getCommandOutput())
}

func newJSONOutput(out, errOut io.Writer) *JSONOutput {
	return &JSONOutput{
		commonOutputFormatter: newCommonOutputFormatter(out, errOut),
	}
}

func (jo *JSONOutput) getErrorOutput() string {
	return marshalJSONToString(
		struct {
			Err string `json:"error"`
		}{
			Err: jo.errorOutput.Error(),
		},
	)
}

func (jo *JSONOutput) getCommandOutput() string {
	return marshalJSONToString(jo.commandOutput)
}

func marshalJSONToString(input interface{}) string {
	bytes, err := json.Marshal(input)
	if err != nil {
		return err.Error()
	}

	return string(bytes)
}

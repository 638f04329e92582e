package command

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

type testResult struct {
	Value string `json:"value"`
}

func (r *testResult) GetOutput() string {
	return "value is " + r.Value
}

func newTestCommand(json bool) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool(JSONOutputFlag, false, "")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	if json {
		_ = cmd.Flags().Set(JSONOutputFlag, "true")
	}

	return cmd, &out, &errOut
}

func TestOutputter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		json      bool
		err       error
		wantOut   string
		wantError string
	}{
		{
			name:    "cli result",
			wantOut: "value is 1\n",
		},
		{
			name:      "cli error",
			err:       errors.New("boom"),
			wantError: "boom\n",
		},
		{
			name:    "json result",
			json:    true,
			wantOut: "{\"value\":\"1\"}\n",
		},
		{
			name:      "json error",
			json:      true,
			err:       errors.New("boom"),
			wantError: "{\"error\":\"boom\"}\n",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd, out, errOut := newTestCommand(tc.json)

			outputter := InitializeOutputter(cmd)
			outputter.SetCommandResult(&testResult{Value: "1"})

			if tc.err != nil {
				outputter.SetError(tc.err)
			}

			outputter.WriteOutput()

			assert.Equal(t, tc.wantOut, out.String())
			assert.Equal(t, tc.wantError, errOut.String())
		})
	}
}

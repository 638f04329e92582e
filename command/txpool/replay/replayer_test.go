package replay

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygon/polygon-devpool/command/helper"
)

const sender = "0x0000000000000000000000000000000000000001"

func addStep(nonce, gas uint64) map[string]interface{} {
	return map[string]interface{}{
		"action":    actionAdd,
		"from":      sender,
		"nonce":     nonce,
		"gas":       gas,
		"gas_price": "1",
	}
}

func txNonces(txs []TxResult) []uint64 {
	res := []uint64{}
	for _, tx := range txs {
		res = append(res, tx.Nonce)
	}

	return res
}

func newScenario(steps ...map[string]interface{}) *Scenario {
	return &Scenario{
		BlockGasLimit: 10_000_000,
		Accounts: []*Account{
			{Address: sender, Balance: "100000000000000000000"},
		},
		Steps: steps,
	}
}

func TestReplayGasLimitScenario(t *testing.T) {
	t.Parallel()

	result, err := replayScenario(hclog.NewNullLogger(), newScenario(
		addStep(0, 100_000),
		addStep(1, 200_000),
		addStep(2, 100_000),
		addStep(4, 100_000),
		addStep(5, 100_000),
		map[string]interface{}{"action": actionSetGasLimit, "gas_limit": 150_000},
		addStep(3, 200_000),
	))
	require.NoError(t, err)

	assert.Equal(t, uint64(150_000), result.BlockGasLimit)
	assert.Equal(t, []uint64{0}, txNonces(result.Pending))
	assert.Equal(t, []uint64{2, 4, 5}, txNonces(result.Queued))

	require.Len(t, result.Steps, 7)
	assert.Equal(t,
		"Transaction gas limit is 200000 and exceeds block gas limit of 150000",
		result.Steps[6].Error,
	)
	assert.Empty(t, result.Steps[0].Error)
	assert.NotEmpty(t, result.Steps[0].Detail)
}

func TestReplaySnapshotRewindsLedger(t *testing.T) {
	t.Parallel()

	result, err := replayScenario(hclog.NewNullLogger(), newScenario(
		addStep(0, 100_000),
		addStep(1, 100_000),
		map[string]interface{}{"action": actionSnapshot},
		map[string]interface{}{"action": actionSetNonce, "address": sender, "nonce": 1},
		map[string]interface{}{"action": actionResync},
		map[string]interface{}{"action": actionSnapshot},
		map[string]interface{}{"action": actionRevert, "id": 0},
		map[string]interface{}{"action": actionRevert, "id": 1},
		map[string]interface{}{"action": actionResync},
	))
	require.NoError(t, err)

	// the ledger nonce went back to 0 with the revert
	assert.Equal(t, []uint64{0, 1}, txNonces(result.Pending))
	assert.Equal(t, "0", result.Steps[2].Detail)
	assert.Equal(t, "1", result.Steps[5].Detail)
	assert.Contains(t, result.Steps[7].Error, "There's no snapshot with such ID")
}

func TestReplayRemoveAndBalance(t *testing.T) {
	t.Parallel()

	result, err := replayScenario(hclog.NewNullLogger(), newScenario(
		addStep(0, 100_000),
		addStep(1, 100_000),
		addStep(2, 100_000),
		map[string]interface{}{"action": actionRemove, "from": sender, "nonce": 1},
		map[string]interface{}{"action": actionSetBalance, "address": sender, "balance": "0x0"},
		map[string]interface{}{"action": actionResync},
	))
	require.NoError(t, err)

	assert.Contains(t, result.Steps[3].Detail, "removed=true")
	assert.Empty(t, result.Pending)
	assert.Empty(t, result.Queued)
}

func TestReplayFatalStep(t *testing.T) {
	t.Parallel()

	_, err := replayScenario(hclog.NewNullLogger(), newScenario(
		addStep(0, 100_000),
		map[string]interface{}{"action": actionAdd, "from": "0x1234"},
	))
	assert.ErrorContains(t, err, "step 1 (add)")

	_, err = replayScenario(hclog.NewNullLogger(), newScenario(
		map[string]interface{}{"action": "mine"},
	))
	assert.ErrorContains(t, err, "step 0")
}

func TestReplayResultOutput(t *testing.T) {
	t.Parallel()

	result, err := replayScenario(hclog.NewNullLogger(), newScenario(
		addStep(0, 100_000),
		addStep(2, 100_000),
	))
	require.NoError(t, err)

	output := result.GetOutput()

	for _, section := range []string{"[REPLAY]", "[STEPS]", "[PENDING]", "[QUEUED]"} {
		assert.Contains(t, output, section)
	}

	assert.NotContains(t, output, "[METRICS]")
}

func TestReplayCommand(t *testing.T) {
	path := writeScenario(t, "scenario.json", jsonScenario)

	var out, errOut bytes.Buffer

	cmd := &cobra.Command{Use: "devpool"}
	helper.RegisterJSONOutputFlag(cmd)
	helper.RegisterLogLevelFlag(cmd)
	cmd.AddCommand(GetCommand())

	cmd.SetArgs([]string{"replay", "--scenario", path, "--metrics", "--json", "--log-level", "error"})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, cmd.Execute())
	require.Empty(t, errOut.String())

	var result ReplayResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	assert.Equal(t, uint64(150_000), result.BlockGasLimit)
	assert.Equal(t, []uint64{0}, txNonces(result.Pending))

	metrics := make(map[string]float64)
	for _, m := range result.Metrics {
		metrics[m.Name] = m.Value
	}

	assert.Equal(t, float64(1), metrics["devpool.txpool.added_tx"])
	assert.Equal(t, float64(1), metrics["devpool.txpool.pending_transactions"])
}

package replay

import (
	"bytes"
	"fmt"

	"github.com/0xPolygon/polygon-devpool/command/helper"
	"github.com/0xPolygon/polygon-devpool/types"
)

type StepResult struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

type TxResult struct {
	Hash     string `json:"hash"`
	From     string `json:"from"`
	Nonce    uint64 `json:"nonce"`
	Gas      uint64 `json:"gas"`
	GasPrice string `json:"gas_price"`
	Value    string `json:"value"`
	Signed   bool   `json:"signed"`
}

type MetricResult struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type ReplayResult struct {
	BlockGasLimit uint64         `json:"block_gas_limit"`
	Steps         []StepResult   `json:"steps"`
	Pending       []TxResult     `json:"pending"`
	Queued        []TxResult     `json:"queued"`
	Metrics       []MetricResult `json:"metrics,omitempty"`
}

func newTxResults(txs []*types.Transaction) []TxResult {
	res := make([]TxResult, 0, len(txs))

	for _, tx := range txs {
		res = append(res, TxResult{
			Hash:     tx.Hash.String(),
			From:     tx.From.String(),
			Nonce:    tx.Nonce,
			Gas:      tx.Gas,
			GasPrice: tx.GetGasPrice().String(),
			Value:    *types.EncodeBigInt(tx.Value),
			Signed:   tx.V != nil,
		})
	}

	return res
}

func (r *ReplayResult) GetOutput() string {
	var buffer bytes.Buffer

	buffer.WriteString("\n[REPLAY]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Steps|%d", len(r.Steps)),
		fmt.Sprintf("Block gas limit|%d", r.BlockGasLimit),
		fmt.Sprintf("Pending|%d", len(r.Pending)),
		fmt.Sprintf("Queued|%d", len(r.Queued)),
	}))
	buffer.WriteString("\n")

	steps := []string{"#|Action|Detail|Error"}
	for _, s := range r.Steps {
		steps = append(steps, fmt.Sprintf("%d|%s|%s|%s", s.Index, s.Action, s.Detail, s.Error))
	}

	buffer.WriteString("\n[STEPS]\n")
	buffer.WriteString(helper.FormatList(steps))
	buffer.WriteString("\n")

	writeTxs := func(title string, txs []TxResult) {
		rows := []string{"Hash|From|Nonce|Gas|Gas price|Value|Signed"}
		for _, tx := range txs {
			rows = append(rows, fmt.Sprintf("%s|%s|%d|%d|%s|%s|%t",
				tx.Hash, tx.From, tx.Nonce, tx.Gas, tx.GasPrice, tx.Value, tx.Signed))
		}

		buffer.WriteString(fmt.Sprintf("\n[%s]\n", title))
		buffer.WriteString(helper.FormatList(rows))
		buffer.WriteString("\n")
	}

	writeTxs("PENDING", r.Pending)
	writeTxs("QUEUED", r.Queued)

	if len(r.Metrics) > 0 {
		rows := make([]string, 0, len(r.Metrics))
		for _, m := range r.Metrics {
			rows = append(rows, fmt.Sprintf("%s|%g", m.Name, m.Value))
		}

		buffer.WriteString("\n[METRICS]\n")
		buffer.WriteString(helper.FormatKV(rows))
		buffer.WriteString("\n")
	}

	return buffer.String()
}

package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/0xPolygon/polygon-devpool/command"
	"github.com/0xPolygon/polygon-devpool/txpool"
)

// Scenario is a replayable sequence of pool and ledger operations
type Scenario struct {
	BlockGasLimit  uint64                   `json:"block_gas_limit" yaml:"block_gas_limit" hcl:"block_gas_limit"`
	SkipValueCheck bool                     `json:"skip_value_check" yaml:"skip_value_check" hcl:"skip_value_check"`
	JournalSize    int                      `json:"journal_size" yaml:"journal_size" hcl:"journal_size"`
	ChainID        uint64                   `json:"chain_id" yaml:"chain_id" hcl:"chain_id"`
	Accounts       []*Account               `json:"accounts" yaml:"accounts" hcl:"account"`
	Steps          []map[string]interface{} `json:"steps" yaml:"steps" hcl:"step"`
}

// Account is the initial ledger state of an address.
// Transactions from an account with a private key are signed,
// its address may then be left out.
type Account struct {
	Address    string `json:"address" yaml:"address" hcl:"address"`
	PrivateKey string `json:"private_key" yaml:"private_key" hcl:"private_key"`
	Nonce      uint64 `json:"nonce" yaml:"nonce" hcl:"nonce"`
	Balance    string `json:"balance" yaml:"balance" hcl:"balance"`
}

const (
	actionAdd         = "add"
	actionSetGasLimit = "set_gas_limit"
	actionSetBalance  = "set_balance"
	actionSetNonce    = "set_nonce"
	actionResync      = "resync"
	actionRemove      = "remove"
	actionSnapshot    = "snapshot"
	actionRevert      = "revert"
)

// Step is a single scenario operation. Which fields apply
// depends on the action.
type Step struct {
	Action string `mapstructure:"action"`

	// add
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Nonce    uint64 `mapstructure:"nonce"`
	Gas      uint64 `mapstructure:"gas"`
	GasPrice string `mapstructure:"gas_price"`
	Value    string `mapstructure:"value"`

	// set_gas_limit
	GasLimit uint64 `mapstructure:"gas_limit"`

	// set_balance, set_nonce
	Address string `mapstructure:"address"`
	Balance string `mapstructure:"balance"`

	// remove, either the hash or from and nonce
	Hash string `mapstructure:"hash"`

	// revert
	ID int `mapstructure:"id"`
}

// ReadScenarioFile reads a scenario from a .hcl, .json, .yaml or .yml file
func ReadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var unmarshalFunc func([]byte, interface{}) error

	switch {
	case strings.HasSuffix(path, ".hcl"):
		unmarshalFunc = hcl.Unmarshal
	case strings.HasSuffix(path, ".json"):
		unmarshalFunc = json.Unmarshal
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		unmarshalFunc = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("suffix of %s is neither hcl, json, yaml nor yml", path)
	}

	scenario := &Scenario{
		BlockGasLimit: txpool.DefaultConfig().BlockGasLimit,
		JournalSize:   txpool.DefaultConfig().JournalSize,
		ChainID:       command.DefaultChainID,
	}

	if err := unmarshalFunc(data, scenario); err != nil {
		return nil, err
	}

	return scenario, nil
}

// decodeStep decodes a raw step, rejecting keys no field uses
func decodeStep(raw map[string]interface{}) (*Step, error) {
	step := &Step{}
	metadata := &mapstructure.Metadata{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           step,
		WeaklyTypedInput: true,
		Metadata:         metadata,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	if len(metadata.Unused) != 0 {
		return nil, fmt.Errorf("some keys not used: %v", metadata.Unused)
	}

	if err := step.validate(); err != nil {
		return nil, err
	}

	return step, nil
}

func (s *Step) validate() error {
	switch s.Action {
	case actionAdd:
		if s.From == "" {
			return fmt.Errorf("%s: from is required", s.Action)
		}
	case actionSetBalance:
		if s.Address == "" || s.Balance == "" {
			return fmt.Errorf("%s: address and balance are required", s.Action)
		}
	case actionSetNonce:
		if s.Address == "" {
			return fmt.Errorf("%s: address is required", s.Action)
		}
	case actionRemove:
		if s.Hash == "" && s.From == "" {
			return fmt.Errorf("%s: hash or from is required", s.Action)
		}
	case actionSetGasLimit, actionResync, actionSnapshot, actionRevert:
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}

	return nil
}

package replay

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-hclog"
	"github.com/umbracle/ethgo/wallet"

	"github.com/0xPolygon/polygon-devpool/state"
	"github.com/0xPolygon/polygon-devpool/txpool"
	"github.com/0xPolygon/polygon-devpool/types"
)

// replayer plays scenario steps against a pool and the ledger it reads
type replayer struct {
	logger hclog.Logger
	ledger *state.MemoryState
	pool   *txpool.TxPool

	chainID uint64
	keys    map[types.Address]*wallet.Key

	// pool snapshot id -> ledger snapshot id
	snapshots map[int]int
}

func newReplayer(logger hclog.Logger, scenario *Scenario) (*replayer, error) {
	ledger := state.NewMemoryState()
	keys := make(map[types.Address]*wallet.Key)

	for _, acc := range scenario.Accounts {
		addr, key, err := parseAccount(acc)
		if err != nil {
			return nil, err
		}

		if key != nil {
			keys[addr] = key
		}

		balance, err := parseAmount(acc.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", acc.Address, err)
		}

		ledger.SetNonce(addr, acc.Nonce)
		ledger.SetBalance(addr, balance)
	}

	pool, err := txpool.NewTxPool(logger, ledger, &txpool.Config{
		BlockGasLimit:  scenario.BlockGasLimit,
		SkipValueCheck: scenario.SkipValueCheck,
		JournalSize:    scenario.JournalSize,
	})
	if err != nil {
		return nil, err
	}

	return &replayer{
		logger:    logger.Named("replay"),
		ledger:    ledger,
		pool:      pool,
		chainID:   scenario.ChainID,
		keys:      keys,
		snapshots: make(map[int]int),
	}, nil
}

// run plays the raw steps in order. Rejected transactions and unknown
// snapshots are reported on their step, anything else stops the replay.
func (r *replayer) run(steps []map[string]interface{}) ([]StepResult, error) {
	results := make([]StepResult, 0, len(steps))

	for i, raw := range steps {
		step, err := decodeStep(raw)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i, err)
		}

		detail, err := r.apply(step)

		result := StepResult{
			Index:  i,
			Action: step.Action,
			Detail: detail,
		}

		if err != nil {
			if !errors.Is(err, txpool.ErrBlockLimitExceeded) && !errors.Is(err, txpool.ErrSnapshotNotFound) {
				return results, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
			}

			result.Error = err.Error()
		}

		r.logger.Debug("step applied", "index", i, "action", step.Action, "detail", detail, "error", result.Error)

		results = append(results, result)
	}

	return results, nil
}

func (r *replayer) apply(step *Step) (string, error) {
	switch step.Action {
	case actionAdd:
		tx, err := step.transaction()
		if err != nil {
			return "", err
		}

		if key, ok := r.keys[tx.From]; ok {
			if err := signTransaction(tx, key, r.chainID); err != nil {
				return "", err
			}
		} else {
			// from is not part of the hash, keep the hashes of
			// different unsigned senders apart
			tx.Input = tx.From.Bytes()
			tx.ComputeHash()
		}

		if err := r.pool.AddTx(tx); err != nil {
			return "", err
		}

		return tx.Hash.String(), nil

	case actionSetGasLimit:
		return fmt.Sprintf("%d", step.GasLimit), r.pool.SetBlockGasLimit(step.GasLimit)

	case actionSetBalance:
		addr, err := parseAddress(step.Address)
		if err != nil {
			return "", err
		}

		balance, err := parseAmount(step.Balance)
		if err != nil {
			return "", err
		}

		r.ledger.SetBalance(addr, balance)

		return balance.String(), nil

	case actionSetNonce:
		addr, err := parseAddress(step.Address)
		if err != nil {
			return "", err
		}

		r.ledger.SetNonce(addr, step.Nonce)

		return fmt.Sprintf("%d", step.Nonce), nil

	case actionResync:
		return "", r.pool.Resync()

	case actionRemove:
		hash, err := r.resolveHash(step)
		if err != nil {
			return "", err
		}

		removed, err := r.pool.RemoveTx(hash)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s removed=%t", hash, removed), nil

	case actionSnapshot:
		id := r.pool.MakeSnapshot()
		r.snapshots[id] = r.ledger.Snapshot()

		return fmt.Sprintf("%d", id), nil

	case actionRevert:
		if err := r.pool.RevertToSnapshot(step.ID); err != nil {
			return "", err
		}

		if err := r.ledger.RevertToSnapshot(r.snapshots[step.ID]); err != nil {
			return "", err
		}

		return fmt.Sprintf("%d", step.ID), nil
	}

	return "", fmt.Errorf("unknown action %q", step.Action)
}

// resolveHash returns the hash named by a remove step, looking
// it up by sender and nonce when no hash is given
func (r *replayer) resolveHash(step *Step) (types.Hash, error) {
	if step.Hash != "" {
		return types.StringToHash(step.Hash), nil
	}

	from, err := parseAddress(step.From)
	if err != nil {
		return types.ZeroHash, err
	}

	promoted, enqueued := r.pool.GetTxs(true)

	for _, txs := range [][]*types.Transaction{promoted[from], enqueued[from]} {
		for _, tx := range txs {
			if tx.Nonce == step.Nonce {
				return tx.Hash, nil
			}
		}
	}

	return types.ZeroHash, nil
}

// transaction builds the transaction of an add step
func (s *Step) transaction() (*types.Transaction, error) {
	from, err := parseAddress(s.From)
	if err != nil {
		return nil, err
	}

	gasPrice, err := parseAmount(s.GasPrice)
	if err != nil {
		return nil, fmt.Errorf("gas_price: %w", err)
	}

	value, err := parseAmount(s.Value)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}

	tx := &types.Transaction{
		From:     from,
		Nonce:    s.Nonce,
		Gas:      s.Gas,
		GasPrice: gasPrice,
		Value:    value,
	}

	if s.To != "" {
		to, err := parseAddress(s.To)
		if err != nil {
			return nil, err
		}

		tx.To = &to
	}

	return tx, nil
}

// parseAccount returns the address of acc and its key, if any.
// A given address must match the key.
func parseAccount(acc *Account) (types.Address, *wallet.Key, error) {
	if acc.PrivateKey == "" {
		addr, err := parseAddress(acc.Address)

		return addr, nil, err
	}

	key, err := parseKey(acc.PrivateKey)
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	addr := types.Address(key.Address())

	if acc.Address != "" {
		given, err := parseAddress(acc.Address)
		if err != nil {
			return types.ZeroAddress, nil, err
		}

		if given != addr {
			return types.ZeroAddress, nil,
				fmt.Errorf("address %s does not match private key of %s", given, addr)
		}
	}

	return addr, key, nil
}

func parseAddress(raw string) (types.Address, error) {
	a := types.Address{}
	if err := a.UnmarshalText([]byte(raw)); err != nil {
		return types.ZeroAddress,
			fmt.Errorf("failed to decode address %q: %w", raw, err)
	}

	return a, nil
}

// parseAmount parses a decimal or hex amount, empty is zero
func parseAmount(raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}

	return types.ParseUint256orHex(&raw)
}

// replayScenario plays every step of the scenario and
// returns the final views of the pool
func replayScenario(logger hclog.Logger, scenario *Scenario) (*ReplayResult, error) {
	r, err := newReplayer(logger, scenario)
	if err != nil {
		return nil, err
	}

	steps, err := r.run(scenario.Steps)
	if err != nil {
		return nil, err
	}

	return &ReplayResult{
		BlockGasLimit: r.pool.GetBlockGasLimit(),
		Steps:         steps,
		Pending:       newTxResults(r.pool.GetOrderedPendingTransactions()),
		Queued:        newTxResults(r.pool.GetOrderedQueuedTransactions()),
	}, nil
}

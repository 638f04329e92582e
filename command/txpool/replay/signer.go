package replay

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/umbracle/ethgo"
	"github.com/umbracle/ethgo/wallet"

	"github.com/0xPolygon/polygon-devpool/helper/hex"
	"github.com/0xPolygon/polygon-devpool/types"
)

var errGasPriceOverflow = errors.New("gas price does not fit the legacy signer")

// parseKey decodes a hex encoded ECDSA private key
func parseKey(raw string) (*wallet.Key, error) {
	keyRaw, err := hex.DecodeHex(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}

	key, err := wallet.NewWalletFromPrivKey(keyRaw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return key, nil
}

// signTransaction signs tx as an EIP-155 legacy transaction,
// sets its V, R and S values and recomputes the hash
func signTransaction(tx *types.Transaction, key *wallet.Key, chainID uint64) error {
	gasPrice := tx.GetGasPrice()
	if !gasPrice.IsUint64() {
		return errGasPriceOverflow
	}

	txn := &ethgo.Transaction{
		Type:     ethgo.TransactionLegacy,
		ChainID:  new(big.Int).SetUint64(chainID),
		Nonce:    tx.Nonce,
		GasPrice: gasPrice.Uint64(),
		Gas:      tx.Gas,
		Value:    tx.Value,
		Input:    tx.Input,
	}

	if tx.To != nil {
		to := ethgo.Address(*tx.To)
		txn.To = &to
	}

	signer := wallet.NewEIP155Signer(chainID)

	signed, err := signer.SignTx(txn, key)
	if err != nil {
		return err
	}

	tx.V = new(big.Int).SetBytes(signed.V)
	tx.R = new(big.Int).SetBytes(signed.R)
	tx.S = new(big.Int).SetBytes(signed.S)
	tx.ComputeHash()

	return nil
}

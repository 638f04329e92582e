package types

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ParseUint64orHex parses a decimal or 0x prefixed hex string
func ParseUint64orHex(val *string) (uint64, error) {
	if val == nil {
		return 0, nil
	}

	str := *val
	base := 10

	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	return strconv.ParseUint(str, base, 64)
}

// ParseUint256orHex parses a decimal or 0x prefixed hex string into a big integer
func ParseUint256orHex(val *string) (*big.Int, error) {
	if val == nil {
		return nil, nil
	}

	str := *val
	base := 10

	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	b, ok := new(big.Int).SetString(str, base)
	if !ok {
		return nil, fmt.Errorf("could not parse %q", *val)
	}

	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative value %q", *val)
	}

	return b, nil
}

func EncodeUint64(b uint64) *string {
	res := fmt.Sprintf("0x%x", b)

	return &res
}

func EncodeBigInt(b *big.Int) *string {
	if b == nil {
		res := "0x0"

		return &res
	}

	res := "0x" + b.Text(16)

	return &res
}

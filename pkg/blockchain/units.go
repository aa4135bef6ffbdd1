package blockchain

import (
	"math/big"
	"strings"
)

// NativeDecimals is the fixed exponent for native-currency balances.
const NativeDecimals = 18

// FormatUnits converts a raw smallest-unit amount into a human-readable
// decimal string, trimming trailing zeros but always keeping at least one
// fractional digit: 1e18 wei with 18 decimals renders as "1.0".
func FormatUnits(raw *big.Int, decimals int32) string {
	if raw == nil {
		return "0.0"
	}
	if decimals <= 0 {
		return raw.String()
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	abs := new(big.Int).Abs(raw)
	quo, rem := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	frac := rem.String()
	for int32(len(frac)) < decimals {
		frac = "0" + frac
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	sign := ""
	if raw.Sign() < 0 {
		sign = "-"
	}
	return sign + quo.String() + "." + frac
}

// FormatFixed converts a raw smallest-unit amount into a decimal string with
// exactly places fractional digits: 1500000 with 6 decimals renders as "1.50".
func FormatFixed(raw *big.Int, decimals int32, places int) string {
	if raw == nil {
		raw = big.NewInt(0)
	}

	value := new(big.Float).SetInt(raw)
	if decimals > 0 {
		divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
		value.Quo(value, divisor)
	}

	return value.Text('f', places)
}

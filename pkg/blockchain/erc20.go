package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// The dashboard only ever reads three functions off the token contract.
const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid ERC20 ABI: %v", err))
	}
	erc20ABI = parsed
}

// PackBalanceOf builds the calldata for balanceOf(owner).
func PackBalanceOf(owner common.Address) ([]byte, error) {
	return erc20ABI.Pack("balanceOf", owner)
}

// TokenBalance reads the ERC20 balance of holder on the token contract.
func TokenBalance(ctx context.Context, p Provider, token, holder common.Address) (*big.Int, error) {
	data, err := PackBalanceOf(holder)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	result, err := p.CallContract(ctx, token, data)
	if err != nil {
		return nil, fmt.Errorf("eth_call balanceOf failed: %w", err)
	}
	if len(result) == 0 {
		return big.NewInt(0), nil
	}

	outputs, err := erc20ABI.Unpack("balanceOf", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result: %w", err)
	}

	balance, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf output type %T", outputs[0])
	}
	return balance, nil
}

// TokenDecimals reads the decimals of the token contract. On failure it
// returns 18 alongside the error, so callers can fall back.
func TokenDecimals(ctx context.Context, p Provider, token common.Address) (int32, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 18, fmt.Errorf("failed to pack decimals call: %w", err)
	}

	result, err := p.CallContract(ctx, token, data)
	if err != nil || len(result) < 32 {
		return 18, fmt.Errorf("eth_call decimals failed: %w", err)
	}

	// uint8 lives in the last byte of the 32-byte word.
	return int32(result[31]), nil
}

// TokenSymbol reads the symbol of the token contract.
func TokenSymbol(ctx context.Context, p Provider, token common.Address) (string, error) {
	data, err := erc20ABI.Pack("symbol")
	if err != nil {
		return "", fmt.Errorf("failed to pack symbol call: %w", err)
	}

	result, err := p.CallContract(ctx, token, data)
	if err != nil {
		return "", fmt.Errorf("eth_call symbol failed: %w", err)
	}

	outputs, err := erc20ABI.Unpack("symbol", result)
	if err != nil {
		return "", fmt.Errorf("failed to unpack symbol result: %w", err)
	}

	symbol, ok := outputs[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected symbol output type %T", outputs[0])
	}
	return symbol, nil
}

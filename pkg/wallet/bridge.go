package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/walletdash/walletdash/pkg/blockchain"
	"github.com/walletdash/walletdash/pkg/logger"
)

// Bridge wraps a blockchain provider with the four read-only operations the
// dashboard needs: connect, native balance, token balance and token metadata.
// Every call is an independent one-shot request; failures propagate once to
// the caller with no retry.
type Bridge struct {
	provider blockchain.Provider
}

// NewBridge creates a bridge over provider. A nil provider is valid and
// yields ErrProviderUnavailable from every remote operation.
func NewBridge(provider blockchain.Provider) *Bridge {
	return &Bridge{provider: provider}
}

// Available reports whether a provider is present.
func (b *Bridge) Available() bool {
	return b.provider != nil
}

// Connect requests account access and returns the first account the
// provider exposes.
func (b *Bridge) Connect(ctx context.Context) (common.Address, error) {
	if !b.Available() {
		return common.Address{}, ErrProviderUnavailable
	}

	accounts, err := b.provider.RequestAccounts(ctx)
	if err != nil {
		if isRejection(err) {
			return common.Address{}, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		return common.Address{}, fmt.Errorf("%w: %v", ErrProviderFault, err)
	}

	if len(accounts) == 0 {
		return common.Address{}, ErrNoAccounts
	}

	logger.InfoCF("wallet", "Connected account", map[string]any{
		"address":  accounts[0].Hex(),
		"accounts": len(accounts),
	})

	return accounts[0], nil
}

// NativeBalance returns the native-currency balance of address as a
// human-readable decimal string, using the fixed 18-decimal exponent.
func (b *Bridge) NativeBalance(ctx context.Context, address common.Address) (string, error) {
	if !b.Available() {
		return "", ErrProviderUnavailable
	}

	balance, err := b.provider.BalanceAt(ctx, address)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBalanceFetch, err)
	}

	return blockchain.FormatUnits(balance, blockchain.NativeDecimals), nil
}

// TokenBalance returns the ERC20 balance of address on the token contract,
// divided by 10^decimals and formatted to 2 fractional digits.
func (b *Bridge) TokenBalance(ctx context.Context, address, token common.Address, decimals int32) (string, error) {
	if !b.Available() {
		return "", ErrProviderUnavailable
	}

	balance, err := blockchain.TokenBalance(ctx, b.provider, token, address)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBalanceFetch, err)
	}

	return blockchain.FormatFixed(balance, decimals, 2), nil
}

// TokenDecimals reads decimals off the token contract, falling back to the
// given default when the contract does not answer.
func (b *Bridge) TokenDecimals(ctx context.Context, token common.Address, fallback int32) int32 {
	if !b.Available() {
		return fallback
	}

	decimals, err := blockchain.TokenDecimals(ctx, b.provider, token)
	if err != nil {
		logger.WarnCF("wallet", "Failed to get token decimals, using fallback", map[string]any{
			"token":    token.Hex(),
			"fallback": fallback,
			"error":    err.Error(),
		})
		return fallback
	}
	return decimals
}

// TokenSymbol reads the symbol off the token contract, falling back to the
// given default when the contract does not answer.
func (b *Bridge) TokenSymbol(ctx context.Context, token common.Address, fallback string) string {
	if !b.Available() {
		return fallback
	}

	symbol, err := blockchain.TokenSymbol(ctx, b.provider, token)
	if err != nil {
		logger.WarnCF("wallet", "Failed to get token symbol, using fallback", map[string]any{
			"token":    token.Hex(),
			"fallback": fallback,
			"error":    err.Error(),
		})
		return fallback
	}
	return symbol
}

// isRejection detects the user-denied shape of provider errors. EIP-1193
// providers use code 4001 with a "rejected" or "denied" message.
func isRejection(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rejected") || strings.Contains(msg, "denied")
}

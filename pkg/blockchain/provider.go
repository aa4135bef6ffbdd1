package blockchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/walletdash/walletdash/pkg/config"
	"github.com/walletdash/walletdash/pkg/logger"
)

// Provider is the injectable capability the wallet bridge runs against:
// account access, native balance reads and read-only contract calls.
// Tests substitute a fake; production uses RPCProvider.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// RPCProvider backs the Provider interface with a JSON-RPC endpoint.
type RPCProvider struct {
	chain *config.ChainConfig
	rpc   *rpc.Client
	eth   *ethclient.Client
}

// Dial connects to the chain's RPC endpoint and verifies its chain ID
// against the configured one.
func Dial(ctx context.Context, chain *config.ChainConfig) (*RPCProvider, error) {
	rpcClient, err := rpc.DialContext(ctx, chain.RPC)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", chain.Name, err)
	}

	ethClient := ethclient.NewClient(rpcClient)

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("failed to get chain ID for %s: %w", chain.Name, err)
	}

	if chain.ChainID != 0 && chainID.Int64() != chain.ChainID {
		rpcClient.Close()
		return nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", chain.ChainID, chainID.Int64())
	}

	logger.InfoCF("blockchain", "Connected to chain", map[string]any{
		"name":    chain.Name,
		"chainId": chainID.Int64(),
		"rpc":     chain.RPC,
	})

	return &RPCProvider{
		chain: chain,
		rpc:   rpcClient,
		eth:   ethClient,
	}, nil
}

// RequestAccounts asks the provider for its unlocked accounts. Wallet-style
// endpoints answer eth_requestAccounts; plain nodes only expose eth_accounts,
// so that is tried as a fallback.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var hexAccounts []string
	err := p.rpc.CallContext(ctx, &hexAccounts, "eth_requestAccounts")
	if err != nil {
		if fallbackErr := p.rpc.CallContext(ctx, &hexAccounts, "eth_accounts"); fallbackErr != nil {
			return nil, err
		}
	}

	accounts := make([]common.Address, 0, len(hexAccounts))
	for _, h := range hexAccounts {
		accounts = append(accounts, common.HexToAddress(h))
	}
	return accounts, nil
}

// BalanceAt returns the native balance of address at the latest block, in wei.
func (p *RPCProvider) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	return p.eth.BalanceAt(ctx, address, nil)
}

// CallContract performs a read-only eth_call against to at the latest block.
func (p *RPCProvider) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{
		To:   &to,
		Data: data,
	}
	return p.eth.CallContract(ctx, msg, nil)
}

// Close closes the underlying RPC connection.
func (p *RPCProvider) Close() {
	p.rpc.Close()
	logger.InfoCF("blockchain", "Disconnected from chain", map[string]any{
		"name": p.chain.Name,
	})
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Chain   ChainConfig   `json:"chain"`
	Token   TokenConfig   `json:"token"`
	Gateway GatewayConfig `json:"gateway"`
	Session SessionConfig `json:"session"`
	Log     LogConfig     `json:"log"`
}

// ChainConfig describes the EVM chain the dashboard reads from.
type ChainConfig struct {
	Name     string `json:"name" env:"WALLETDASH_CHAIN_NAME"`
	ChainID  int64  `json:"chain_id" env:"WALLETDASH_CHAIN_ID"`
	RPC      string `json:"rpc" env:"WALLETDASH_CHAIN_RPC"`
	Explorer string `json:"explorer" env:"WALLETDASH_CHAIN_EXPLORER"`
	Currency string `json:"currency" env:"WALLETDASH_CHAIN_CURRENCY"`
}

// TokenConfig describes the fixed ERC20 token shown on the dashboard.
type TokenConfig struct {
	Address  string `json:"address" env:"WALLETDASH_TOKEN_ADDRESS"`
	Symbol   string `json:"symbol" env:"WALLETDASH_TOKEN_SYMBOL"`
	Decimals int32  `json:"decimals" env:"WALLETDASH_TOKEN_DECIMALS"`
}

type GatewayConfig struct {
	Host string `json:"host" env:"WALLETDASH_GATEWAY_HOST"`
	Port int    `json:"port" env:"WALLETDASH_GATEWAY_PORT"`
}

type SessionConfig struct {
	StorePath string `json:"store_path" env:"WALLETDASH_SESSION_STORE_PATH"`
}

type LogConfig struct {
	Level string `json:"level" env:"WALLETDASH_LOG_LEVEL"`
}

func DefaultConfig() *Config {
	return &Config{
		Chain: ChainConfig{
			Name:     "Ethereum",
			ChainID:  1,
			RPC:      "https://eth.llamarpc.com",
			Explorer: "https://etherscan.io",
			Currency: "ETH",
		},
		Token: TokenConfig{
			Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
			Symbol:   "USDC",
			Decimals: 6,
		},
		Gateway: GatewayConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Session: SessionConfig{
			StorePath: "~/.walletdash/session.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads config from path, applying defaults for anything unset
// and environment overrides on top. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// StorePath returns the session store path with ~ expanded.
func (c *Config) StorePath() string {
	return expandHome(c.Session.StorePath)
}

// ExplorerAddressURL returns the block-explorer page for an address.
func (c *Config) ExplorerAddressURL(address string) string {
	base := strings.TrimRight(c.Chain.Explorer, "/")
	if base == "" {
		return ""
	}
	return base + "/address/" + address
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}

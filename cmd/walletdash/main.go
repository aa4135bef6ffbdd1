package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/walletdash/walletdash/pkg/blockchain"
	"github.com/walletdash/walletdash/pkg/config"
	"github.com/walletdash/walletdash/pkg/logger"
	"github.com/walletdash/walletdash/pkg/session"
	"github.com/walletdash/walletdash/pkg/wallet"
)

// Version is set during build
var Version = "dev"

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "walletdash",
		Short: "Wallet login and balance dashboard for EVM chains",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newServeCmd(),
		newConnectCmd(),
		newBalanceCmd(),
		newAddressCmd(),
		newLogoutCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".walletdash", "config.json")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.Log.Level)
	return cfg, nil
}

func openShell(cfg *config.Config) (*session.Shell, *session.SQLiteStore, error) {
	store, err := session.OpenStore(cfg.StorePath())
	if err != nil {
		return nil, nil, err
	}
	shell, err := session.NewShell(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return shell, store, nil
}

// dialBridge returns a bridge over the configured RPC endpoint. A failed
// dial is not fatal: the bridge stays providerless and every remote call
// reports the provider as unavailable, which is exactly what the views show.
func dialBridge(ctx context.Context, cfg *config.Config) *wallet.Bridge {
	provider, err := blockchain.Dial(ctx, &cfg.Chain)
	if err != nil {
		logger.WarnCF("main", "Provider unavailable", map[string]any{
			"rpc":   cfg.Chain.RPC,
			"error": err.Error(),
		})
		return wallet.NewBridge(nil)
	}
	return wallet.NewBridge(provider)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			shell, store, err := openShell(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bridge := dialBridge(ctx, cfg)
			server := setupGatewayHTTP(cfg, bridge, shell)

			errCh := make(chan error, 1)
			go func() {
				logger.InfoCF("gateway", "Listening", map[string]any{"addr": server.Addr})
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.InfoC("gateway", "Shutting down")
				if err := server.Shutdown(context.Background()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Request wallet accounts and log in with the first one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			shell, store, err := openShell(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			bridge := dialBridge(cmd.Context(), cfg)
			address, err := bridge.Connect(cmd.Context())
			if err != nil {
				return err
			}

			if err := shell.Login(address.Hex()); err != nil {
				return err
			}

			fmt.Printf("Connected: %s\n", address.Hex())
			if url := cfg.ExplorerAddressURL(address.Hex()); url != "" {
				fmt.Printf("Explorer:  %s\n", url)
			}
			return nil
		},
	}
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show native and token balances for the logged-in address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			shell, store, err := openShell(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if !shell.Authenticated() {
				return errors.New("not connected, run 'walletdash connect' first")
			}

			bridge := dialBridge(cmd.Context(), cfg)
			address := common.HexToAddress(shell.Address())
			token := common.HexToAddress(cfg.Token.Address)

			// The two reads are independent; one failing card never
			// hides the other.
			var wg sync.WaitGroup
			var native, tokenBal string
			var nativeErr, tokenErr error

			wg.Add(2)
			go func() {
				defer wg.Done()
				native, nativeErr = bridge.NativeBalance(cmd.Context(), address)
			}()
			go func() {
				defer wg.Done()
				tokenBal, tokenErr = bridge.TokenBalance(cmd.Context(), address, token, cfg.Token.Decimals)
			}()
			wg.Wait()

			fmt.Printf("Address: %s\n", wallet.FormatAddress(shell.Address()))
			if nativeErr != nil {
				fmt.Printf("%-6s error: %v\n", cfg.Chain.Currency, nativeErr)
			} else {
				fmt.Printf("%-6s %s\n", cfg.Chain.Currency, native)
			}
			if tokenErr != nil {
				fmt.Printf("%-6s error: %v\n", cfg.Token.Symbol, tokenErr)
			} else {
				fmt.Printf("%-6s %s\n", cfg.Token.Symbol, tokenBal)
			}
			return nil
		},
	}
}

func newAddressCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Show the logged-in address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			shell, store, err := openShell(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if !shell.Authenticated() {
				return errors.New("not connected, run 'walletdash connect' first")
			}

			address := shell.Address()
			fmt.Printf("Address:  %s\n", address)
			fmt.Printf("Display:  %s\n", wallet.FormatAddress(address))
			if url := cfg.ExplorerAddressURL(address); url != "" {
				fmt.Printf("Explorer: %s\n", url)
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(address); err != nil {
					return fmt.Errorf("failed to copy address: %w", err)
				}
				fmt.Println("Copied to clipboard.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the address to the clipboard")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			shell, store, err := openShell(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := shell.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("walletdash version %s\n", Version)
		},
	}
}

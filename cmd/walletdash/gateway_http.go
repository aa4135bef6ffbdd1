package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/walletdash/walletdash/pkg/config"
	"github.com/walletdash/walletdash/pkg/logger"
	"github.com/walletdash/walletdash/pkg/session"
	"github.com/walletdash/walletdash/pkg/wallet"
)

// balanceCard is one independently fetched balance on the dashboard.
// Value and Error are mutually exclusive.
type balanceCard struct {
	Currency string `json:"currency"`
	Value    string `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Address       string `json:"address,omitempty"`
	Display       string `json:"display,omitempty"`
	ExplorerURL   string `json:"explorer_url,omitempty"`
}

// setupGatewayHTTP creates the HTTP server for the dashboard API endpoints
func setupGatewayHTTP(cfg *config.Config, bridge *wallet.Bridge, shell *session.Shell) *http.Server {
	router := mux.NewRouter()
	router.Use(requestLogging)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "walletdash-gateway",
		})
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionState(cfg, shell))
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/session/connect", func(w http.ResponseWriter, r *http.Request) {
		address, err := bridge.Connect(r.Context())
		if err != nil {
			logger.WarnCF("gateway", "Connect failed", map[string]any{"error": err.Error()})
			writeError(w, err)
			return
		}

		if err := shell.Login(address.Hex()); err != nil {
			logger.ErrorCF("gateway", "Login failed", map[string]any{"error": err.Error()})
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, sessionState(cfg, shell))
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/session/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := shell.Logout(); err != nil {
			logger.ErrorCF("gateway", "Logout failed", map[string]any{"error": err.Error()})
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionState(cfg, shell))
	}).Methods(http.MethodPost)

	router.HandleFunc("/api/balances", func(w http.ResponseWriter, r *http.Request) {
		if !shell.Authenticated() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "not connected",
			})
			return
		}

		address := common.HexToAddress(shell.Address())
		token := common.HexToAddress(cfg.Token.Address)

		// Both cards fetch independently and in parallel; each failure
		// stays on its own card.
		native := balanceCard{Currency: cfg.Chain.Currency}
		tokenCard := balanceCard{Currency: cfg.Token.Symbol}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			value, err := bridge.NativeBalance(r.Context(), address)
			if err != nil {
				native.Error = err.Error()
				return
			}
			native.Value = value
		}()
		go func() {
			defer wg.Done()
			value, err := bridge.TokenBalance(r.Context(), address, token, cfg.Token.Decimals)
			if err != nil {
				tokenCard.Error = err.Error()
				return
			}
			tokenCard.Value = value
		}()
		wg.Wait()

		writeJSON(w, http.StatusOK, map[string]any{
			"address":  shell.Address(),
			"balances": []balanceCard{native, tokenCard},
		})
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func sessionState(cfg *config.Config, shell *session.Shell) sessionResponse {
	resp := sessionResponse{Authenticated: shell.Authenticated()}
	if address := shell.Address(); address != "" {
		resp.Address = address
		resp.Display = wallet.FormatAddress(address)
		resp.ExplorerURL = cfg.ExplorerAddressURL(address)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError converts a bridge or session error into an inline JSON message
// with a status that tells the client whether retrying makes sense.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, wallet.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, wallet.ErrConnectionRejected):
		status = http.StatusForbidden
	case errors.Is(err, wallet.ErrNoAccounts):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrInvalidAddress):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestLogging tags each request with an ID and logs method, path and timing.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()

		next.ServeHTTP(w, r)

		logger.DebugCF("gateway", "Request handled", map[string]any{
			"id":     id,
			"method": r.Method,
			"path":   r.URL.Path,
			"took":   time.Since(start).String(),
		})
	})
}

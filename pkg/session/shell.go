package session

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/walletdash/walletdash/pkg/logger"
)

// ErrInvalidAddress is returned when a login address is not well-formed hex
var ErrInvalidAddress = errors.New("invalid address")

// Shell holds the single authenticated/address pair and keeps it in sync
// with the persistent store. A persisted address restored at startup counts
// as authenticated without reconfirming wallet connectivity.
type Shell struct {
	mu            sync.RWMutex
	store         Store
	address       string
	authenticated bool
}

// NewShell creates a shell over store and restores any persisted address.
func NewShell(store Store) (*Shell, error) {
	s := &Shell{store: store}

	address, err := store.LoadAddress()
	if err != nil {
		return nil, err
	}
	if address != "" {
		s.address = address
		s.authenticated = true
		logger.InfoCF("session", "Restored session", map[string]any{
			"address": address,
		})
	}

	return s, nil
}

// Login records address as the authenticated account and persists it.
func (s *Shell) Login(address string) error {
	if !common.IsHexAddress(address) {
		return ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveAddress(address); err != nil {
		return err
	}

	s.address = address
	s.authenticated = true

	logger.InfoCF("session", "Logged in", map[string]any{
		"address": address,
	})
	return nil
}

// Logout clears the session and the persisted address.
func (s *Shell) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAddress(); err != nil {
		return err
	}

	s.address = ""
	s.authenticated = false

	logger.InfoC("session", "Logged out")
	return nil
}

// Authenticated reports whether an address is logged in.
func (s *Shell) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Address returns the logged-in address, or "" when logged out.
func (s *Shell) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

package wallet

import "errors"

var (
	// ErrProviderUnavailable is returned when no provider is configured or reachable
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrNoAccounts is returned when the provider exposes no accounts
	ErrNoAccounts = errors.New("provider returned no accounts")

	// ErrConnectionRejected is returned when the provider denies the account request
	ErrConnectionRejected = errors.New("connection rejected by provider")

	// ErrProviderFault wraps any other fault raised during a provider call
	ErrProviderFault = errors.New("provider fault")

	// ErrBalanceFetch is returned when a native or token balance query fails
	ErrBalanceFetch = errors.New("balance fetch failed")
)

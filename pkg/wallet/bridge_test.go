package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records calls and answers from canned values.
type fakeProvider struct {
	accounts    []common.Address
	accountsErr error
	balance     *big.Int
	balanceErr  error
	callResult  []byte
	callErr     error

	requestCalls int
	balanceCalls int
	callCalls    int
}

func (f *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	f.requestCalls++
	return f.accounts, f.accountsErr
}

func (f *fakeProvider) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	f.balanceCalls++
	return f.balance, f.balanceErr
}

func (f *fakeProvider) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	f.callCalls++
	return f.callResult, f.callErr
}

func TestBridge_Available(t *testing.T) {
	assert.False(t, NewBridge(nil).Available())
	assert.True(t, NewBridge(&fakeProvider{}).Available())
}

func TestConnect_NoProvider(t *testing.T) {
	b := NewBridge(nil)

	_, err := b.Connect(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestConnect_NoProviderNeverInvokesProvider(t *testing.T) {
	// The presence check has to short-circuit before any provider call.
	f := &fakeProvider{}
	b := &Bridge{}

	_, err := b.Connect(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Zero(t, f.requestCalls)
}

func TestConnect_ReturnsFirstAccount(t *testing.T) {
	first := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	second := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	f := &fakeProvider{accounts: []common.Address{first, second}}
	b := NewBridge(f)

	addr, err := b.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, addr)
	assert.Equal(t, 1, f.requestCalls)
}

func TestConnect_EmptyAccounts(t *testing.T) {
	b := NewBridge(&fakeProvider{accounts: []common.Address{}})

	_, err := b.Connect(context.Background())
	require.ErrorIs(t, err, ErrNoAccounts)
}

func TestConnect_Rejection(t *testing.T) {
	f := &fakeProvider{accountsErr: errors.New("user rejected the request")}
	b := NewBridge(f)

	_, err := b.Connect(context.Background())
	require.ErrorIs(t, err, ErrConnectionRejected)
}

func TestConnect_OtherFaultPassesMessageThrough(t *testing.T) {
	f := &fakeProvider{accountsErr: errors.New("rpc timeout")}
	b := NewBridge(f)

	_, err := b.Connect(context.Background())
	require.ErrorIs(t, err, ErrProviderFault)
	assert.Contains(t, err.Error(), "rpc timeout")
}

func TestNativeBalance_OneEther(t *testing.T) {
	raw, _ := new(big.Int).SetString("1000000000000000000", 10)
	b := NewBridge(&fakeProvider{balance: raw})

	got, err := b.NativeBalance(context.Background(), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, "1.0", got)
}

func TestNativeBalance_NoProvider(t *testing.T) {
	_, err := NewBridge(nil).NativeBalance(context.Background(), common.Address{})
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestNativeBalance_FetchError(t *testing.T) {
	b := NewBridge(&fakeProvider{balanceErr: errors.New("node unreachable")})

	_, err := b.NativeBalance(context.Background(), common.Address{})
	require.ErrorIs(t, err, ErrBalanceFetch)
}

func TestTokenBalance_FormatsToTwoDigits(t *testing.T) {
	f := &fakeProvider{callResult: common.LeftPadBytes(big.NewInt(1500000).Bytes(), 32)}
	b := NewBridge(f)

	got, err := b.TokenBalance(context.Background(), common.Address{}, common.Address{}, 6)
	require.NoError(t, err)
	assert.Equal(t, "1.50", got)
}

func TestTokenBalance_FetchError(t *testing.T) {
	b := NewBridge(&fakeProvider{callErr: errors.New("execution reverted")})

	_, err := b.TokenBalance(context.Background(), common.Address{}, common.Address{}, 6)
	require.ErrorIs(t, err, ErrBalanceFetch)
}

func TestTokenDecimals_Fallback(t *testing.T) {
	b := NewBridge(&fakeProvider{callErr: errors.New("boom")})

	got := b.TokenDecimals(context.Background(), common.Address{}, 6)
	assert.Equal(t, int32(6), got)
}

func TestTokenSymbol_Fallback(t *testing.T) {
	b := NewBridge(&fakeProvider{callErr: errors.New("boom")})

	got := b.TokenSymbol(context.Background(), common.Address{}, "USDC")
	assert.Equal(t, "USDC", got)
}

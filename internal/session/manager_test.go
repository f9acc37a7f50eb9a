package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metasecure-core/internal/history"
	"metasecure-core/internal/notify"
	"metasecure-core/internal/wallet"
	"metasecure-core/pkg/errno"
)

const testAccount = "0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199"

type fakeProvider struct {
	accounts    []string
	requestErr  error
	accountsErr error
	chainID     string

	handlers map[wallet.Event][]wallet.Handler
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		chainID:  "0x1",
		handlers: map[wallet.Event][]wallet.Handler{},
	}
}

func (f *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return f.accounts, f.requestErr
}

func (f *fakeProvider) Accounts(ctx context.Context) ([]string, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeProvider) ChainID(ctx context.Context) (string, error) {
	return f.chainID, nil
}

func (f *fakeProvider) SendTransaction(ctx context.Context, p wallet.TxParams) (string, error) {
	return "0xhash", nil
}

func (f *fakeProvider) Subscribe(event wallet.Event, handler wallet.Handler) func() {
	f.handlers[event] = append(f.handlers[event], handler)
	return func() {}
}

// emit fires a change event the way the poll loop would.
func (f *fakeProvider) emit(event wallet.Event, ev wallet.ChangeEvent) {
	for _, h := range f.handlers[event] {
		h(ev)
	}
}

type fakeNotifier struct {
	errors []string
}

func (f *fakeNotifier) Loading(msg string) notify.Handle { return 1 }
func (f *fakeNotifier) Success(msg string)               {}
func (f *fakeNotifier) Error(msg string)                 { f.errors = append(f.errors, msg) }
func (f *fakeNotifier) Dismiss(h notify.Handle)          {}

func newTestManager(provider wallet.Provider, reload func()) (*Manager, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewManager(provider, history.NewReconciler(nil, notifier), notifier, reload), notifier
}

func TestConnectAdoptsFirstAccount(t *testing.T) {
	provider := newFakeProvider()
	provider.accounts = []string{testAccount, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}
	m, _ := newTestManager(provider, nil)

	require.NoError(t, m.Connect(context.Background()))

	assert.Equal(t, Connected, m.State())
	assert.Equal(t, testAccount, m.Account())
	assert.Equal(t, "Ethereum Mainnet", m.Network())
	assert.True(t, m.Connected())
}

func TestConnectWithoutProvider(t *testing.T) {
	m, _ := newTestManager(nil, nil)

	err := m.Connect(context.Background())

	assert.ErrorIs(t, err, errno.ErrProviderUnavailable)
	assert.Equal(t, Disconnected, m.State())
}

func TestConnectRejectedLeavesSessionDisconnected(t *testing.T) {
	provider := newFakeProvider()
	provider.requestErr = errno.ErrUserRejected
	notifier := &fakeNotifier{}

	refreshes := 0
	source := func(account string) (history.Source, error) {
		refreshes++
		return nil, errors.New("should not be reached")
	}
	m := NewManager(provider, history.NewReconciler(source, notifier), notifier, nil)

	err := m.Connect(context.Background())

	assert.ErrorIs(t, err, errno.ErrUserRejected)
	assert.Equal(t, Disconnected, m.State())
	assert.Empty(t, m.Account())
	assert.Zero(t, refreshes, "failed connect must not refresh history")
	assert.NotEmpty(t, notifier.errors)
}

func TestConnectEmptyAccounts(t *testing.T) {
	provider := newFakeProvider()
	m, _ := newTestManager(provider, nil)

	err := m.Connect(context.Background())

	assert.ErrorIs(t, err, errno.ErrNoAccounts)
	assert.Equal(t, Disconnected, m.State())
}

func TestResumeNeverPrompts(t *testing.T) {
	provider := newFakeProvider()
	m, _ := newTestManager(provider, nil)

	// No prior authorization: stays disconnected without error.
	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, Disconnected, m.State())

	// Prior authorization: silently re-adopted.
	provider.accounts = []string{testAccount}
	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, Connected, m.State())
	assert.Equal(t, testAccount, m.Account())
}

func TestDisconnectClearsStateAndRunsHooks(t *testing.T) {
	provider := newFakeProvider()
	provider.accounts = []string{testAccount}
	m, _ := newTestManager(provider, nil)
	require.NoError(t, m.Connect(context.Background()))

	hookRuns := 0
	m.OnDisconnect(func() { hookRuns++ })

	m.Disconnect()

	assert.Equal(t, Disconnected, m.State())
	assert.Empty(t, m.Account())
	assert.Equal(t, 1, hookRuns)
}

func TestAccountsChangedAdoptsNewAccount(t *testing.T) {
	provider := newFakeProvider()
	provider.accounts = []string{testAccount}
	m, _ := newTestManager(provider, nil)
	m.Start()
	defer m.Close()
	require.NoError(t, m.Connect(context.Background()))

	next := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	provider.emit(wallet.AccountsChanged, wallet.ChangeEvent{Accounts: []string{next}})

	assert.Equal(t, next, m.Account())
	assert.Equal(t, Connected, m.State())
}

func TestAccountsChangedEmptyDisconnects(t *testing.T) {
	provider := newFakeProvider()
	provider.accounts = []string{testAccount}
	m, _ := newTestManager(provider, nil)
	m.Start()
	defer m.Close()
	require.NoError(t, m.Connect(context.Background()))

	hookRuns := 0
	m.OnDisconnect(func() { hookRuns++ })

	provider.emit(wallet.AccountsChanged, wallet.ChangeEvent{})

	assert.Equal(t, Disconnected, m.State())
	assert.Empty(t, m.Account())
	assert.Equal(t, 1, hookRuns)
}

func TestChainChangedUpdatesLabelBeforeReload(t *testing.T) {
	provider := newFakeProvider()
	provider.accounts = []string{testAccount}
	m, _ := newTestManager(provider, nil)

	var labelAtReload string
	reloaded := 0
	m.reload = func() {
		labelAtReload = m.Network()
		reloaded++
	}

	m.Start()
	defer m.Close()
	require.NoError(t, m.Connect(context.Background()))

	provider.emit(wallet.ChainChanged, wallet.ChangeEvent{ChainID: "0x89"})

	assert.Equal(t, 1, reloaded)
	assert.Equal(t, "Polygon", labelAtReload, "network label is current when the reload fires")
	assert.Equal(t, "Polygon", m.Network())
}

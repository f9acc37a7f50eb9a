package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"metasecure-core/internal/history"
	"metasecure-core/internal/notify"
	"metasecure-core/internal/wallet"
	"metasecure-core/pkg/errno"
	"metasecure-core/pkg/logger"
	"metasecure-core/pkg/monitor"
)

// State of the wallet session.
type State string

const (
	Disconnected State = "disconnected"
	Connecting   State = "connecting"
	Connected    State = "connected"
)

// Manager owns the current account and network identity. It is the only
// writer of session state; other components read through Account and
// Network. At most one account is active at a time.
type Manager struct {
	provider wallet.Provider // nil when no wallet is available
	history  *history.Reconciler
	notifier notify.Notifier
	// reload is invoked after a chain change, once the network label has
	// been updated. Cached contract bindings and in-flight state may
	// reference the old chain, so the hosting process reinitializes.
	reload func()

	mu      sync.Mutex
	state   State
	account string
	network string

	unsubs       []func()
	onDisconnect []func()
}

func NewManager(provider wallet.Provider, hist *history.Reconciler, notifier notify.Notifier, reload func()) *Manager {
	return &Manager{
		provider: provider,
		history:  hist,
		notifier: notifier,
		reload:   reload,
		state:    Disconnected,
	}
}

// OnDisconnect registers a hook run on every disconnect (explicit or
// wallet-driven). The orchestrator resets its draft through this.
func (m *Manager) OnDisconnect(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDisconnect = append(m.onDisconnect, f)
}

// Start subscribes to wallet change events. No-op without a provider.
func (m *Manager) Start() {
	if m.provider == nil {
		return
	}

	unsubAccounts := m.provider.Subscribe(wallet.AccountsChanged, func(ev wallet.ChangeEvent) {
		if len(ev.Accounts) == 0 {
			logger.Info("wallet reported no accounts, disconnecting")
			m.Disconnect()
			return
		}
		// Implicit connect to the new first account.
		m.adopt(context.Background(), ev.Accounts[0])
	})

	unsubChain := m.provider.Subscribe(wallet.ChainChanged, func(ev wallet.ChangeEvent) {
		m.mu.Lock()
		m.network = NetworkLabel(ev.ChainID)
		reload := m.reload
		m.mu.Unlock()

		logger.Info("chain changed, full reinitialization required", zap.String("chain", ev.ChainID))
		// The label is updated before the reload action fires; the reload
		// discards any in-flight state bound to the old chain.
		if reload != nil {
			reload()
		}
	})

	m.unsubs = append(m.unsubs, unsubAccounts, unsubChain)
}

// Close tears down the event subscriptions.
func (m *Manager) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

// Connect prompts the wallet for account access and adopts the first
// authorized account. A rejection or an empty result leaves the session
// disconnected.
func (m *Manager) Connect(ctx context.Context) error {
	if m.provider == nil {
		return errno.ErrProviderUnavailable
	}

	m.mu.Lock()
	m.state = Connecting
	m.mu.Unlock()

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		m.setDisconnectedState()
		m.notifier.Error(err.Error())
		return err
	}
	if len(accounts) == 0 {
		m.setDisconnectedState()
		m.notifier.Error(errno.ErrNoAccounts.Message)
		return errno.ErrNoAccounts
	}

	m.adopt(ctx, accounts[0])
	if monitor.Business != nil {
		monitor.Business.ConnectsTotal.Inc()
	}
	return nil
}

// Resume silently re-adopts an already-authorized account at startup.
// It never prompts: without prior authorization it leaves the session
// disconnected and returns nil.
func (m *Manager) Resume(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}

	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return nil
	}

	m.adopt(ctx, accounts[0])
	return nil
}

// Disconnect resets local state only: account, history list, and the
// registered draft hooks. Wallet-side permissions cannot be revoked.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.account = ""
	m.state = Disconnected
	hooks := make([]func(), len(m.onDisconnect))
	copy(hooks, m.onDisconnect)
	m.mu.Unlock()

	m.history.Clear()
	for _, f := range hooks {
		f()
	}
}

// adopt makes account the active account, re-derives the network label,
// and refreshes the history for it.
func (m *Manager) adopt(ctx context.Context, account string) {
	network := ""
	if chainID, err := m.provider.ChainID(ctx); err != nil {
		logger.Warn("chain id query failed", zap.Error(err))
	} else {
		network = NetworkLabel(chainID)
	}

	m.mu.Lock()
	m.account = account
	if network != "" {
		m.network = network
	}
	m.state = Connected
	m.mu.Unlock()

	logger.Info("session connected", zap.String("account", account), zap.String("network", network))
	m.history.Refresh(ctx, account)
}

func (m *Manager) setDisconnectedState() {
	m.mu.Lock()
	m.state = Disconnected
	m.mu.Unlock()
}

func (m *Manager) Account() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account
}

func (m *Manager) Network() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.network
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Connected() bool {
	return m.State() == Connected
}

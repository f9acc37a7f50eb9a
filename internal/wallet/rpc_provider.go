package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"metasecure-core/pkg/config"
	"metasecure-core/pkg/logger"
)

// sendTxArgs is the eth_sendTransaction parameter object.
type sendTxArgs struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Gas   *hexutil.Uint64 `json:"gas,omitempty"`
	Value *hexutil.Big   `json:"value,omitempty"`
	Data  hexutil.Bytes  `json:"data,omitempty"`
}

// RPCProvider implements Provider over a wallet-capable JSON-RPC
// endpoint. Account and chain change events are synthesized by a poll
// loop comparing successive eth_accounts/eth_chainId responses, since a
// bare RPC connection has no push channel for them.
type RPCProvider struct {
	client       *rpc.Client
	pollInterval time.Duration

	mu           sync.Mutex
	nextSubID    uint64
	subs         map[Event]map[uint64]Handler
	lastAccounts []string
	lastChainID  string
	primed       bool
}

// Detect dials the configured wallet RPC endpoint. It returns absent
// (nil, false) when no endpoint is configured or the dial fails; callers
// must check before use.
func Detect(cfg config.WalletConfig) (*RPCProvider, bool) {
	if cfg.RpcUrl == "" {
		return nil, false
	}
	client, err := rpc.Dial(cfg.RpcUrl)
	if err != nil {
		logger.Warn("wallet rpc unreachable", zap.String("url", cfg.RpcUrl), zap.Error(err))
		return nil, false
	}
	interval := time.Duration(cfg.PollIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &RPCProvider{
		client:       client,
		pollInterval: interval,
		subs:         make(map[Event]map[uint64]Handler),
	}, true
}

// Raw exposes the underlying rpc client so read-side components can
// share the connection (ethclient.NewClient).
func (p *RPCProvider) Raw() *rpc.Client {
	return p.client
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, translateWalletError(err)
	}
	return accounts, nil
}

func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, translateWalletError(err)
	}
	return accounts, nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return "", translateWalletError(err)
	}
	return chainID, nil
}

func (p *RPCProvider) SendTransaction(ctx context.Context, params TxParams) (string, error) {
	args := sendTxArgs{
		From: params.From,
		To:   params.To,
		Data: params.Data,
	}
	if params.Gas > 0 {
		gas := hexutil.Uint64(params.Gas)
		args.Gas = &gas
	}
	if params.ValueWei != nil {
		args.Value = (*hexutil.Big)(params.ValueWei)
	}

	var hash string
	if err := p.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return "", translateWalletError(err)
	}
	return hash, nil
}

func (p *RPCProvider) Subscribe(event Event, handler Handler) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subs[event] == nil {
		p.subs[event] = make(map[uint64]Handler)
	}
	p.nextSubID++
	id := p.nextSubID
	p.subs[event][id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs[event], id)
	}
}

// StartEvents runs the change-detection poll loop until ctx is
// cancelled. The first round only primes the baseline so startup state
// never fires as a change.
func (p *RPCProvider) StartEvents(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

func (p *RPCProvider) poll(ctx context.Context) {
	accounts, accErr := p.Accounts(ctx)
	chainID, chainErr := p.ChainID(ctx)
	if accErr != nil || chainErr != nil {
		// Transient RPC trouble: keep the baseline, emit nothing.
		logger.Debug("wallet poll failed",
			zap.NamedError("accounts", accErr), zap.NamedError("chain", chainErr))
		return
	}

	p.mu.Lock()
	if !p.primed {
		p.lastAccounts = accounts
		p.lastChainID = chainID
		p.primed = true
		p.mu.Unlock()
		return
	}

	accountsChanged := !equalAccounts(p.lastAccounts, accounts)
	chainChanged := p.lastChainID != chainID
	p.lastAccounts = accounts
	p.lastChainID = chainID

	var accountHandlers, chainHandlers []Handler
	if accountsChanged {
		for _, h := range p.subs[AccountsChanged] {
			accountHandlers = append(accountHandlers, h)
		}
	}
	if chainChanged {
		for _, h := range p.subs[ChainChanged] {
			chainHandlers = append(chainHandlers, h)
		}
	}
	p.mu.Unlock()

	// Handlers run outside the lock; they may call back into the provider.
	for _, h := range accountHandlers {
		h(ChangeEvent{Accounts: accounts})
	}
	for _, h := range chainHandlers {
		h(ChangeEvent{ChainID: chainID})
	}
}

func equalAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

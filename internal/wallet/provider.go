package wallet

import (
	"context"
	"math/big"
)

// Event names mirror the EIP-1193 notifications a browser wallet emits.
type Event string

const (
	AccountsChanged Event = "accountsChanged"
	ChainChanged    Event = "chainChanged"
)

// ChangeEvent is the payload delivered to subscribers. Accounts is set
// for accountsChanged (may be empty, meaning the wallet was locked or
// disconnected); ChainID is set for chainChanged.
type ChangeEvent struct {
	Accounts []string
	ChainID  string
}

type Handler func(ChangeEvent)

// TxParams describes a transaction submitted through the wallet. For a
// plain value transfer Data is nil; for a contract call ValueWei may be
// nil and Gas zero, leaving estimation to the wallet.
type TxParams struct {
	From     string
	To       string
	Gas      uint64
	ValueWei *big.Int
	Data     []byte
}

// Provider is the user's key-holding wallet agent, reachable through a
// request/response and event-subscription surface. Implementations must
// return the errno wallet errors for user rejection and pending-prompt
// conditions so callers can surface them distinctly.
type Provider interface {
	// RequestAccounts triggers a user-facing prompt and blocks until the
	// user approves or rejects.
	RequestAccounts(ctx context.Context) ([]string, error)
	// Accounts returns the already-authorized accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)
	// ChainID returns the active chain id as a hex string, e.g. "0x1".
	ChainID(ctx context.Context) (string, error)
	// SendTransaction blocks until the wallet accepts the submission (not
	// until mining) and returns the transaction hash.
	SendTransaction(ctx context.Context, params TxParams) (string, error)
	// Subscribe registers a handler for event and returns its disposer.
	Subscribe(event Event, handler Handler) (unsubscribe func())
}

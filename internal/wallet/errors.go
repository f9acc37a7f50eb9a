package wallet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"metasecure-core/pkg/errno"
)

// EIP-1193 / MetaMask JSON-RPC error codes.
const (
	codeUserRejected   = 4001
	codeRequestPending = -32002
)

// translateWalletError maps well-known wallet error codes onto the errno
// taxonomy so the orchestrator can surface rejection and pending-prompt
// conditions distinctly from generic RPC failures.
func translateWalletError(err error) error {
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected:
			return errno.ErrUserRejected
		case codeRequestPending:
			return errno.ErrRequestPending
		}
	}

	return fmt.Errorf("wallet request failed: %w", err)
}

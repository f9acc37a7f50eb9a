package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage returns a copy of the Errno carrying a more specific message.
// The code is preserved so Decode still maps it to the same category.
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// Is lets errors.Is match wrapped Errnos by code.
func (e Errno) Is(target error) bool {
	if other, ok := target.(Errno); ok {
		return e.Code == other.Code
	}
	return false
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	}

	var wrapped Errno
	if errors.As(err, &wrapped) {
		return wrapped.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
)

// Wallet Errors (20100+)
var (
	// ErrProviderUnavailable means no wallet RPC endpoint is reachable.
	// Mobile clients get a deep link to open the dApp inside a wallet.
	ErrProviderUnavailable = Errno{Code: 20101, Message: "No wallet provider available, please install or configure a wallet"}
	// ErrUserRejected maps EIP-1193 code 4001: informational, not retriable.
	ErrUserRejected = Errno{Code: 20102, Message: "Request was rejected in the wallet"}
	// ErrRequestPending maps JSON-RPC -32002: a prompt is already open,
	// the user should check the wallet instead of retrying.
	ErrRequestPending = Errno{Code: 20103, Message: "A wallet request is already pending, check your wallet"}
	ErrNoAccounts     = Errno{Code: 20104, Message: "Wallet returned no accounts"}
)

// Submission Errors (20200+)
var (
	ErrMissingField   = Errno{Code: 20201, Message: "Recipient address and amount are required"}
	ErrInvalidAddress = Errno{Code: 20202, Message: "Recipient is not a valid hex address"}
	ErrInvalidAmount  = Errno{Code: 20203, Message: "Amount is not a valid decimal number"}
	// ErrPartialSubmission: the native transfer went through but the ledger
	// record did not. Not rolled back and not retried automatically.
	ErrPartialSubmission = Errno{Code: 20204, Message: "Value was transferred but the ledger record failed"}
	ErrSubmitInFlight    = Errno{Code: 20205, Message: "A submission is already in flight"}
	ErrNotConnected      = Errno{Code: 20206, Message: "No active wallet session"}
)

// Ledger Errors (20300+)
var (
	ErrContractUnavailable   = Errno{Code: 20301, Message: "Ledger contract is not configured or no signer is available"}
	ErrReconciliationFailure = Errno{Code: 20302, Message: "Failed to reconcile transaction history"}
)

package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"metasecure-core/pkg/errno"
)

// jsonError mimics the coded errors the go-ethereum rpc client returns.
type jsonError struct {
	code int
	msg  string
}

func (e *jsonError) Error() string  { return e.msg }
func (e *jsonError) ErrorCode() int { return e.code }

func TestTranslateWalletError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"User rejection", &jsonError{code: 4001, msg: "User rejected the request"}, errno.ErrUserRejected},
		{"Prompt already open", &jsonError{code: -32002, msg: "Request already pending"}, errno.ErrRequestPending},
		{"Wrapped rejection", fmt.Errorf("eth_requestAccounts: %w", &jsonError{code: 4001}), errno.ErrUserRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateWalletError(tt.err), tt.want)
		})
	}
}

func TestTranslateWalletErrorPassthrough(t *testing.T) {
	cause := errors.New("connection refused")

	err := translateWalletError(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, errno.ErrUserRejected)

	assert.NoError(t, translateWalletError(nil))
}

package errno

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"Nil is OK", nil, OK.Code},
		{"Plain errno", ErrUserRejected, ErrUserRejected.Code},
		{"Errno with message override", ErrInvalidAmount.WithMessage("too small"), ErrInvalidAmount.Code},
		{"Wrapped errno keeps its code", fmt.Errorf("submit: %w", ErrNotConnected), ErrNotConnected.Code},
		{"Unknown error is internal", errors.New("boom"), InternalServerError.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := Decode(tt.err)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := ErrRequestPending.WithMessage("check the wallet popup")

	assert.ErrorIs(t, err, ErrRequestPending)
	assert.NotErrorIs(t, err, ErrUserRejected)
}

func TestWithMessageCopies(t *testing.T) {
	derived := ErrMissingField.WithMessage("amount is required")

	assert.Equal(t, "amount is required", derived.Error())
	assert.Equal(t, "Recipient address and amount are required", ErrMissingField.Message)
}

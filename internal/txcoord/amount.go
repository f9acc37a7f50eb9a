package txcoord

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"metasecure-core/pkg/errno"
)

// parseEther converts a user-entered decimal ether amount into wei.
func parseEther(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, errno.ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return nil, errno.ErrInvalidAmount.WithMessage("Amount must be greater than zero")
	}

	wei := d.Shift(18)
	if !wei.IsInteger() {
		return nil, errno.ErrInvalidAmount.WithMessage("Amount has sub-wei precision")
	}
	return wei.BigInt(), nil
}

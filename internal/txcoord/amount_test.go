package txcoord

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"metasecure-core/pkg/errno"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantWei string
		wantErr error
	}{
		{"One ether", "1", "1000000000000000000", nil},
		{"Fractional", "0.5", "500000000000000000", nil},
		{"One wei", "0.000000000000000001", "1", nil},
		{"Whitespace trimmed", " 2.5 ", "2500000000000000000", nil},
		{"Zero rejected", "0", "", errno.ErrInvalidAmount},
		{"Negative rejected", "-1", "", errno.ErrInvalidAmount},
		{"Not a number", "abc", "", errno.ErrInvalidAmount},
		{"Empty", "", "", errno.ErrInvalidAmount},
		{"Sub-wei precision rejected", "0.0000000000000000001", "", errno.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, err := parseEther(tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			want, _ := new(big.Int).SetString(tt.wantWei, 10)
			assert.Equal(t, 0, wei.Cmp(want))
		})
	}
}

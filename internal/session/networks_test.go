package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkLabel(t *testing.T) {
	tests := []struct {
		name    string
		chainID string
		want    string
	}{
		{"Mainnet", "0x1", "Ethereum Mainnet"},
		{"Sepolia", "0xaa36a7", "Sepolia"},
		{"Case insensitive", "0xAA36A7", "Sepolia"},
		{"Localhost", "0x539", "Localhost"},
		{"Unknown decimal fallback", "0x4268", "Chain ID: 17000"},
		{"Unparseable passthrough", "mainnet", "Chain ID: mainnet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NetworkLabel(tt.chainID))
		})
	}
}

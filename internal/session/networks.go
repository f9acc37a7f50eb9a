package session

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// networkLabels maps known chain-id hex strings to human names.
var networkLabels = map[string]string{
	"0x1":      "Ethereum Mainnet",
	"0x5":      "Goerli",
	"0xaa36a7": "Sepolia",
	"0x89":     "Polygon",
	"0x13881":  "Mumbai",
	"0x38":     "BNB Smart Chain",
	"0xa":      "OP Mainnet",
	"0xa4b1":   "Arbitrum One",
	"0x539":    "Localhost",
}

// NetworkLabel resolves a chain-id hex string to a display name.
// Unknown ids render as "Chain ID: <decimal>".
func NetworkLabel(chainIDHex string) string {
	if name, ok := networkLabels[strings.ToLower(chainIDHex)]; ok {
		return name
	}
	id, err := hexutil.DecodeUint64(chainIDHex)
	if err != nil {
		return "Chain ID: " + chainIDHex
	}
	return fmt.Sprintf("Chain ID: %d", id)
}

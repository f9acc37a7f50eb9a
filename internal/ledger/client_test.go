package ledger

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metasecure-core/internal/wallet"
	"metasecure-core/pkg/config"
	"metasecure-core/pkg/errno"
)

const testContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

type stubProvider struct{}

func (stubProvider) RequestAccounts(ctx context.Context) ([]string, error) { return nil, nil }
func (stubProvider) Accounts(ctx context.Context) ([]string, error)        { return nil, nil }
func (stubProvider) ChainID(ctx context.Context) (string, error)           { return "0x1", nil }
func (stubProvider) SendTransaction(ctx context.Context, p wallet.TxParams) (string, error) {
	return "0xhash", nil
}
func (stubProvider) Subscribe(event wallet.Event, handler wallet.Handler) func() {
	return func() {}
}

func TestFactoryConnect(t *testing.T) {
	eth := ethclient.NewClient(nil)

	tests := []struct {
		name     string
		factory  *Factory
		signer   string
		wantConn bool
	}{
		{
			"Configured with signer",
			NewFactory(stubProvider{}, eth, config.ContractConfig{Address: testContract}),
			"0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199",
			true,
		},
		{
			"Missing address",
			NewFactory(stubProvider{}, eth, config.ContractConfig{}),
			"0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199",
			false,
		},
		{
			"Malformed address",
			NewFactory(stubProvider{}, eth, config.ContractConfig{Address: "transactions.sol"}),
			"0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199",
			false,
		},
		{
			"No signer",
			NewFactory(stubProvider{}, eth, config.ContractConfig{Address: testContract}),
			"",
			false,
		},
		{
			"No provider",
			NewFactory(nil, eth, config.ContractConfig{Address: testContract}),
			"0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := tt.factory.Connect(tt.signer)
			if tt.wantConn {
				require.NoError(t, err)
				assert.NotNil(t, client)
				return
			}
			assert.ErrorIs(t, err, errno.ErrContractUnavailable)
		})
	}
}

func TestFactoryReaderNeedsNoSigner(t *testing.T) {
	factory := NewFactory(nil, ethclient.NewClient(nil), config.ContractConfig{Address: testContract})

	client, err := factory.Reader()

	require.NoError(t, err)
	assert.NotNil(t, client)

	// Reads are fine without a signer, writes are not.
	_, err = client.Append(context.Background(), testContract, nil, "", "")
	assert.ErrorIs(t, err, errno.ErrContractUnavailable)
}

func TestFactoryMissingAbiFile(t *testing.T) {
	factory := NewFactory(stubProvider{}, ethclient.NewClient(nil), config.ContractConfig{
		Address: testContract,
		AbiPath: "does/not/exist.json",
	})

	_, err := factory.Connect("0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199")

	assert.ErrorIs(t, err, errno.ErrContractUnavailable)
}

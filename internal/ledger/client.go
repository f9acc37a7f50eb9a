package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"metasecure-core/internal/wallet"
	"metasecure-core/pkg/config"
	"metasecure-core/pkg/errno"
)

// ABI of the deployed Transactions ledger contract. A different build of
// the contract can be loaded through contract.abi_path.
const defaultABI = `[
  {"inputs":[{"internalType":"address payable","name":"receiver","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"string","name":"message","type":"string"},{"internalType":"string","name":"keyword","type":"string"}],"name":"addToBlockchain","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[],"name":"getAllTransactions","outputs":[{"components":[{"internalType":"address","name":"sender","type":"address"},{"internalType":"address","name":"receiver","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"string","name":"message","type":"string"},{"internalType":"uint256","name":"timestamp","type":"uint256"},{"internalType":"string","name":"keyword","type":"string"}],"internalType":"struct Transactions.TransferStruct[]","name":"","type":"tuple[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"getTransactionCount","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

const receiptPollInterval = time.Second

// RawRecord is one ledger tuple exactly as stored on chain, oldest
// first. Field names follow the contract's TransferStruct components so
// the abi decoder can map them.
type RawRecord struct {
	Sender    common.Address
	Receiver  common.Address
	Amount    *big.Int
	Message   string
	Timestamp *big.Int
	Keyword   string
}

// Factory builds signer-bound ledger clients. The ABI and contract
// address are resolved once at startup; a missing address or a broken
// ABI is a configuration error surfaced on the first Connect.
type Factory struct {
	provider wallet.Provider
	eth      *ethclient.Client
	address  common.Address
	abi      abi.ABI
	cfgErr   error
}

func NewFactory(provider wallet.Provider, eth *ethclient.Client, cfg config.ContractConfig) *Factory {
	f := &Factory{provider: provider, eth: eth}

	if cfg.Address == "" || !common.IsHexAddress(cfg.Address) {
		f.cfgErr = errno.ErrContractUnavailable.WithMessage("ledger contract address is not configured")
		return f
	}
	f.address = common.HexToAddress(cfg.Address)

	abiJSON := defaultABI
	if cfg.AbiPath != "" {
		raw, err := os.ReadFile(cfg.AbiPath)
		if err != nil {
			f.cfgErr = errno.ErrContractUnavailable.WithMessage(fmt.Sprintf("cannot read contract abi: %v", err))
			return f
		}
		abiJSON = string(raw)
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		f.cfgErr = errno.ErrContractUnavailable.WithMessage(fmt.Sprintf("cannot parse contract abi: %v", err))
		return f
	}
	f.abi = parsed
	return f
}

// Connect returns a client bound to signer. Fails with
// ErrContractUnavailable when the configuration is broken or no signer
// can be derived.
func (f *Factory) Connect(signer string) (*Client, error) {
	if f.cfgErr != nil {
		return nil, f.cfgErr
	}
	if f.provider == nil || f.eth == nil {
		return nil, errno.ErrContractUnavailable.WithMessage("no wallet provider to sign ledger writes")
	}
	if signer == "" {
		return nil, errno.ErrContractUnavailable.WithMessage("no active account to sign ledger writes")
	}
	return &Client{
		provider: f.provider,
		eth:      f.eth,
		address:  f.address,
		abi:      f.abi,
		signer:   signer,
	}, nil
}

// Reader returns a handle without a signer, good for count and history
// reads before any account is connected. Append on it fails.
func (f *Factory) Reader() (*Client, error) {
	if f.cfgErr != nil {
		return nil, f.cfgErr
	}
	if f.eth == nil {
		return nil, errno.ErrContractUnavailable.WithMessage("no rpc connection for ledger reads")
	}
	return &Client{
		provider: f.provider,
		eth:      f.eth,
		address:  f.address,
		abi:      f.abi,
	}, nil
}

// Client is a signer-bound handle on the ledger contract.
type Client struct {
	provider wallet.Provider
	eth      *ethclient.Client
	address  common.Address
	abi      abi.ABI
	signer   string
}

// TransactionCount reads the authoritative record count.
func (c *Client) TransactionCount(ctx context.Context) (uint64, error) {
	data, err := c.abi.Pack("getTransactionCount")
	if err != nil {
		return 0, fmt.Errorf("pack getTransactionCount: %w", err)
	}

	out, err := c.call(ctx, data)
	if err != nil {
		return 0, fmt.Errorf("getTransactionCount: %w", err)
	}

	results, err := c.abi.Unpack("getTransactionCount", out)
	if err != nil {
		return 0, fmt.Errorf("unpack getTransactionCount: %w", err)
	}
	count := *abi.ConvertType(results[0], new(*big.Int)).(**big.Int)
	return count.Uint64(), nil
}

// AllTransactions returns every ledger record in insertion order.
func (c *Client) AllTransactions(ctx context.Context) ([]RawRecord, error) {
	data, err := c.abi.Pack("getAllTransactions")
	if err != nil {
		return nil, fmt.Errorf("pack getAllTransactions: %w", err)
	}

	out, err := c.call(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("getAllTransactions: %w", err)
	}

	var records []RawRecord
	if err := c.abi.UnpackIntoInterface(&records, "getAllTransactions", out); err != nil {
		return nil, fmt.Errorf("unpack getAllTransactions: %w", err)
	}
	return records, nil
}

// Append submits an addToBlockchain write through the wallet provider
// (the wallet is the only signer). Gas is left to the wallet's
// estimation; only the native transfer phase uses a fixed limit.
func (c *Client) Append(ctx context.Context, to string, amountWei *big.Int, message, keyword string) (*PendingWrite, error) {
	if c.signer == "" {
		return nil, errno.ErrContractUnavailable.WithMessage("no active account to sign ledger writes")
	}

	data, err := c.abi.Pack("addToBlockchain", common.HexToAddress(to), amountWei, message, keyword)
	if err != nil {
		return nil, fmt.Errorf("pack addToBlockchain: %w", err)
	}

	hash, err := c.provider.SendTransaction(ctx, wallet.TxParams{
		From: c.signer,
		To:   c.address.Hex(),
		Data: data,
	})
	if err != nil {
		return nil, err
	}
	return &PendingWrite{hash: hash, eth: c.eth}, nil
}

func (c *Client) call(ctx context.Context, data []byte) ([]byte, error) {
	return c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
}

// PendingWrite is an in-flight ledger append awaiting mining.
type PendingWrite struct {
	hash string
	eth  *ethclient.Client
}

// Hash returns the ledger write's transaction hash.
func (w *PendingWrite) Hash() string {
	return w.hash
}

// Wait blocks until the write is mined and returns the receipt. A
// reverted write is an error: the record never made it onto the ledger.
func (w *PendingWrite) Wait(ctx context.Context) (*types.Receipt, error) {
	txHash := common.HexToHash(w.hash)
	for {
		receipt, err := w.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt.Status == types.ReceiptStatusFailed {
				return nil, fmt.Errorf("ledger write %s reverted", w.hash)
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("awaiting ledger write %s: %w", w.hash, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(receiptPollInterval):
		}
	}
}

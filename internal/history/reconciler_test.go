package history

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metasecure-core/internal/ledger"
	"metasecure-core/internal/notify"
)

const (
	testAccount = "0x8626f6940E2eb28930eFb4CeF49B2d1F2C9C1199"
	otherA      = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	otherB      = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

type fakeNotifier struct {
	errors []string
}

func (f *fakeNotifier) Loading(msg string) notify.Handle { return 1 }
func (f *fakeNotifier) Success(msg string)               {}
func (f *fakeNotifier) Error(msg string)                 { f.errors = append(f.errors, msg) }
func (f *fakeNotifier) Dismiss(h notify.Handle)          {}

type fakeSource struct {
	records []ledger.RawRecord
	err     error
}

func (f *fakeSource) AllTransactions(ctx context.Context) ([]ledger.RawRecord, error) {
	return f.records, f.err
}

func sourceFor(src Source, err error) SourceFactory {
	return func(account string) (Source, error) {
		return src, err
	}
}

func tuple(from, to string, wei int64, ts int64) ledger.RawRecord {
	return ledger.RawRecord{
		Sender:    common.HexToAddress(from),
		Receiver:  common.HexToAddress(to),
		Amount:    big.NewInt(wei),
		Timestamp: big.NewInt(ts),
	}
}

func TestRefreshFiltersAndSorts(t *testing.T) {
	src := &fakeSource{records: []ledger.RawRecord{
		tuple(testAccount, otherA, 1, 100),
		tuple(otherA, otherB, 2, 150), // neither side is ours
		tuple(otherB, testAccount, 3, 300),
		tuple(testAccount, otherB, 4, 200),
	}}
	r := NewReconciler(sourceFor(src, nil), &fakeNotifier{})

	records := r.Refresh(context.Background(), testAccount)

	require.Len(t, records, 3)
	// Most recent first.
	assert.Equal(t, int64(300), records[0].Timestamp.Unix())
	assert.Equal(t, int64(200), records[1].Timestamp.Unix())
	assert.Equal(t, int64(100), records[2].Timestamp.Unix())

	// Refresh replaces the cached list wholesale.
	assert.Equal(t, records, r.Records())
}

func TestRefreshMatchesAccountCaseInsensitively(t *testing.T) {
	src := &fakeSource{records: []ledger.RawRecord{
		tuple(testAccount, otherA, 1, 100),
	}}
	r := NewReconciler(sourceFor(src, nil), &fakeNotifier{})

	records := r.Refresh(context.Background(), "0x8626F6940E2EB28930EFB4CEF49B2D1F2C9C1199")

	assert.Len(t, records, 1)
}

func TestRefreshDropsUnparseableTuples(t *testing.T) {
	broken := ledger.RawRecord{
		Sender:   common.HexToAddress(testAccount),
		Receiver: common.HexToAddress(otherA),
		// missing amount and timestamp
	}
	src := &fakeSource{records: []ledger.RawRecord{
		broken,
		tuple(testAccount, otherA, 5, 100),
	}}
	r := NewReconciler(sourceFor(src, nil), &fakeNotifier{})

	records := r.Refresh(context.Background(), testAccount)

	require.Len(t, records, 1)
	assert.Equal(t, "0.000000000000000005", records[0].AmountEth)
}

func TestRefreshFetchFailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{err: errors.New("rpc down")}
	notifier := &fakeNotifier{}
	r := NewReconciler(sourceFor(src, nil), notifier)

	records := r.Refresh(context.Background(), testAccount)

	assert.Empty(t, records)
	assert.NotEmpty(t, notifier.errors, "fetch failure is surfaced as a notification")
}

func TestRefreshSourceFailureDegradesToEmpty(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewReconciler(sourceFor(nil, errors.New("no contract")), notifier)

	records := r.Refresh(context.Background(), testAccount)

	assert.Empty(t, records)
	assert.NotEmpty(t, notifier.errors)
}

func TestRefreshWithoutProviderOrAccount(t *testing.T) {
	r := NewReconciler(nil, &fakeNotifier{})
	assert.Empty(t, r.Refresh(context.Background(), testAccount))

	r = NewReconciler(sourceFor(&fakeSource{}, nil), &fakeNotifier{})
	assert.Empty(t, r.Refresh(context.Background(), ""))
}

func TestClear(t *testing.T) {
	src := &fakeSource{records: []ledger.RawRecord{
		tuple(testAccount, otherA, 1, 100),
	}}
	r := NewReconciler(sourceFor(src, nil), &fakeNotifier{})
	require.NotEmpty(t, r.Refresh(context.Background(), testAccount))

	r.Clear()

	assert.Empty(t, r.Records())
}

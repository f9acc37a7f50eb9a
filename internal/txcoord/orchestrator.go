package txcoord

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"

	"metasecure-core/internal/counter"
	"metasecure-core/internal/history"
	"metasecure-core/internal/journal"
	"metasecure-core/internal/ledger"
	"metasecure-core/internal/notify"
	"metasecure-core/internal/wallet"
	"metasecure-core/pkg/errno"
	"metasecure-core/pkg/logger"
	"metasecure-core/pkg/monitor"
)

// Session is the read-only view the orchestrator needs of the session
// manager.
type Session interface {
	Account() string
	Connected() bool
}

// Orchestrator owns the pending draft and executes the two-phase submit
// protocol: a native value transfer through the wallet, then a separate
// ledger append. The two phases are not atomic; phase 2 failing after
// phase 1 succeeded is surfaced as a PartialError and journaled, never
// rolled back.
type Orchestrator struct {
	provider wallet.Provider // nil when no wallet is available
	ledger   *ledger.Factory
	counter  *counter.Store
	history  *history.Reconciler
	notifier notify.Notifier
	session  Session
	journal  *journal.Journal // nil disables journaling

	busy atomic.Bool

	mu    sync.Mutex
	draft Draft
	count uint64
}

func NewOrchestrator(
	provider wallet.Provider,
	ledgerFactory *ledger.Factory,
	counterStore *counter.Store,
	hist *history.Reconciler,
	notifier notify.Notifier,
	sess Session,
	jnl *journal.Journal,
) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		ledger:   ledgerFactory,
		counter:  counterStore,
		history:  hist,
		notifier: notifier,
		session:  sess,
		journal:  jnl,
	}
}

// UpdateDraft mutates a single draft field by its wire name.
func (o *Orchestrator) UpdateDraft(field, value string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch field {
	case "addressTo":
		o.draft.AddressTo = value
	case "amount":
		o.draft.Amount = value
	case "keyword":
		o.draft.Keyword = value
	case "message":
		o.draft.Message = value
	default:
		return fmt.Errorf("unknown draft field %q", field)
	}
	return nil
}

// SetDraft replaces the whole draft.
func (o *Orchestrator) SetDraft(d Draft) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.draft = d
}

// Draft returns the current draft.
func (o *Orchestrator) Draft() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft
}

// ResetDraft clears all draft fields. Registered as the session
// manager's disconnect hook.
func (o *Orchestrator) ResetDraft() {
	o.SetDraft(Draft{})
}

// Count returns the last known transaction count.
func (o *Orchestrator) Count() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.count
}

// InitCount primes the displayed count at startup: the cached mirror is
// shown first, then the authoritative ledger count overwrites both the
// display and the cache. A ledger failure keeps the cached value.
func (o *Orchestrator) InitCount(ctx context.Context) {
	if cached, ok := o.counter.Load(ctx); ok {
		o.setCount(cached)
	}

	if o.provider == nil {
		return
	}
	client, err := o.ledger.Reader()
	if err != nil {
		logger.Warn("count init skipped", zap.Error(err))
		return
	}
	count, err := client.TransactionCount(ctx)
	if err != nil {
		logger.Warn("count init: ledger unreachable, keeping cached value", zap.Error(err))
		return
	}

	o.adoptCount(ctx, count)
}

// Submit executes the two-phase protocol for draft and returns the
// native-transfer hash. The draft is passed in, not read from shared
// state, so concurrent callers each execute exactly what they posted.
// A second Submit while one is in flight fails fast with
// ErrSubmitInFlight.
func (o *Orchestrator) Submit(ctx context.Context, draft Draft) (string, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return "", errno.ErrSubmitInFlight
	}
	defer o.busy.Store(false)

	// Local validation, before any network call.
	if o.provider == nil {
		return "", o.failLocal(errno.ErrProviderUnavailable)
	}
	if draft.AddressTo == "" || draft.Amount == "" {
		return "", o.failLocal(errno.ErrMissingField)
	}
	if !common.IsHexAddress(draft.AddressTo) {
		return "", o.failLocal(errno.ErrInvalidAddress)
	}
	from := o.session.Account()
	if from == "" || !o.session.Connected() {
		return "", o.failLocal(errno.ErrNotConnected)
	}

	// Signer-bound ledger handle; configuration errors propagate as-is.
	client, err := o.ledger.Connect(from)
	if err != nil {
		return "", o.failLocal(err)
	}

	wei, err := parseEther(draft.Amount)
	if err != nil {
		return "", o.failLocal(err)
	}

	pendingNotice := o.notifier.Loading(fmt.Sprintf("Sending %s ETH to %s...", draft.Amount, draft.AddressTo))
	entry := o.journal.Begin(ctx, from, draft.AddressTo, wei, draft.Message, draft.Keyword)

	// Phase 1: native transfer, fixed 21000 gas. A rejection or RPC
	// failure aborts the whole operation before any ledger write.
	nativeHash, err := o.provider.SendTransaction(ctx, wallet.TxParams{
		From:     from,
		To:       draft.AddressTo,
		Gas:      params.TxGas,
		ValueWei: wei,
	})
	if err != nil {
		o.journal.MarkFailed(ctx, entry, err.Error())
		o.countSubmission("failed")
		return "", o.fail(pendingNotice, err)
	}
	o.journal.MarkNativeSent(ctx, entry, nativeHash)

	// Phase 2: ledger record. Not atomic with phase 1: from here on a
	// failure means the value has already moved.
	pendingWrite, err := client.Append(ctx, draft.AddressTo, wei, draft.Message, draft.Keyword)
	if err != nil {
		return "", o.failPartial(ctx, pendingNotice, entry, nativeHash, err)
	}
	if _, err := pendingWrite.Wait(ctx); err != nil {
		return "", o.failPartial(ctx, pendingNotice, entry, nativeHash, err)
	}

	// Both phases landed: re-read the authoritative count and refresh.
	if count, err := client.TransactionCount(ctx); err != nil {
		logger.Warn("count re-read failed after submit", zap.Error(err))
	} else {
		o.adoptCount(ctx, count)
	}
	o.history.Refresh(ctx, from)
	o.ResetDraft()

	o.journal.MarkConfirmed(ctx, entry, pendingWrite.Hash())
	o.countSubmission("confirmed")
	o.notifier.Dismiss(pendingNotice)
	o.notifier.Success(fmt.Sprintf("Sent %s ETH to %s", draft.Amount, draft.AddressTo))

	logger.Info("submission confirmed",
		zap.String("native_hash", nativeHash),
		zap.String("ledger_hash", pendingWrite.Hash()))
	return nativeHash, nil
}

// failLocal surfaces a failure raised before any notification or
// network call.
func (o *Orchestrator) failLocal(err error) error {
	o.notifier.Error(err.Error())
	return err
}

// fail dismisses the pending notice and surfaces err.
func (o *Orchestrator) fail(h notify.Handle, err error) error {
	o.notifier.Dismiss(h)
	o.notifier.Error(err.Error())
	return err
}

// failPartial handles the phase-2 gap: journal the partial row, leave
// the counter cache at its pre-attempt value, surface the error.
func (o *Orchestrator) failPartial(ctx context.Context, h notify.Handle, entry uint64, nativeHash string, cause error) error {
	partial := &PartialError{NativeHash: nativeHash, Err: cause}
	o.journal.MarkPartial(ctx, entry, cause.Error())
	o.countSubmission("partial")
	logger.Error("partial submission", zap.String("native_hash", nativeHash), zap.Error(cause))
	return o.fail(h, partial)
}

func (o *Orchestrator) adoptCount(ctx context.Context, count uint64) {
	if err := o.counter.Save(ctx, count); err != nil {
		logger.Warn("counter cache write failed", zap.Error(err))
	}
	o.setCount(count)
	if monitor.Business != nil {
		monitor.Business.LedgerRecordCount.Set(float64(count))
	}
}

func (o *Orchestrator) setCount(count uint64) {
	o.mu.Lock()
	o.count = count
	o.mu.Unlock()
}

func (o *Orchestrator) countSubmission(result string) {
	if monitor.Business != nil {
		monitor.Business.SubmissionsTotal.WithLabelValues(result).Inc()
	}
}

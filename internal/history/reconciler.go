package history

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"metasecure-core/internal/ledger"
	"metasecure-core/internal/notify"
	"metasecure-core/pkg/logger"
	"metasecure-core/pkg/monitor"
)

// Record is the display form of one ledger tuple.
type Record struct {
	AddressFrom string    `json:"address_from"`
	AddressTo   string    `json:"address_to"`
	AmountWei   *big.Int  `json:"amount_wei"`
	AmountEth   string    `json:"amount_eth"`
	Message     string    `json:"message"`
	Keyword     string    `json:"keyword"`
	Timestamp   time.Time `json:"timestamp"`
}

// Source is a read handle on the ledger.
type Source interface {
	AllTransactions(ctx context.Context) ([]ledger.RawRecord, error)
}

// SourceFactory opens a fresh ledger handle for account, mirroring the
// per-refresh contract binding of the submission path. A nil factory
// means no wallet provider is available.
type SourceFactory func(account string) (Source, error)

// Reconciler owns the in-memory transaction list. The list is rebuilt
// wholesale on every refresh from the full ledger, never patched
// incrementally, and is kept recency-sorted.
type Reconciler struct {
	source   SourceFactory
	notifier notify.Notifier

	mu      sync.Mutex
	records []Record
}

func NewReconciler(source SourceFactory, notifier notify.Notifier) *Reconciler {
	return &Reconciler{source: source, notifier: notifier}
}

// Refresh recomputes the list for account. It never returns an error:
// a missing provider or account yields an empty list, and a fetch
// failure degrades to an empty list plus an error notification so list
// rendering stays resilient.
func (r *Reconciler) Refresh(ctx context.Context, account string) []Record {
	if r.source == nil || account == "" {
		return r.replace(nil)
	}

	start := time.Now()

	src, err := r.source(account)
	if err != nil {
		logger.Warn("history source unavailable", zap.Error(err))
		r.notifier.Error("Could not load transaction history")
		return r.replace(nil)
	}

	raw, err := src.AllTransactions(ctx)
	if err != nil {
		logger.Error("history fetch failed", zap.String("account", account), zap.Error(err))
		r.notifier.Error("Could not load transaction history")
		return r.replace(nil)
	}

	wanted := strings.ToLower(account)
	records := make([]Record, 0, len(raw))
	for i, tuple := range raw {
		rec, ok := toRecord(tuple)
		if !ok {
			logger.Warn("dropping unparseable ledger record", zap.Int("index", i))
			continue
		}
		if strings.ToLower(rec.AddressFrom) != wanted && strings.ToLower(rec.AddressTo) != wanted {
			continue
		}
		records = append(records, rec)
	}

	// Most recent first is the canonical order; presentation layers may
	// reverse for chronological display.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	if monitor.Business != nil {
		monitor.Business.HistoryRefreshDuration.Observe(time.Since(start).Seconds())
	}

	return r.replace(records)
}

// Records returns the current list without touching the ledger.
func (r *Reconciler) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Clear empties the list (disconnect path).
func (r *Reconciler) Clear() {
	r.replace(nil)
}

func (r *Reconciler) replace(records []Record) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

func toRecord(tuple ledger.RawRecord) (Record, bool) {
	if tuple.Amount == nil || tuple.Timestamp == nil {
		return Record{}, false
	}
	return Record{
		AddressFrom: tuple.Sender.Hex(),
		AddressTo:   tuple.Receiver.Hex(),
		AmountWei:   tuple.Amount,
		AmountEth:   decimal.NewFromBigInt(tuple.Amount, -18).String(),
		Message:     tuple.Message,
		Keyword:     tuple.Keyword,
		Timestamp:   time.Unix(tuple.Timestamp.Int64(), 0),
	}, true
}

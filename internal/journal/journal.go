package journal

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"metasecure-core/internal/model"
	"metasecure-core/pkg/logger"
)

// Journal durably records every two-phase submission. It exists to make
// partial submissions visible: when the native transfer lands but the
// ledger append does not, the partial row is the only trace of the gap.
// A nil Journal is valid and skips all recording, so deployments without
// postgres lose nothing but the audit trail.
type Journal struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Begin opens a journal row for an attempt and returns its id (0 when
// journaling is disabled or the insert fails — recording must never
// block a submission).
func (j *Journal) Begin(ctx context.Context, from, to string, amountWei *big.Int, message, keyword string) uint64 {
	if j == nil || j.db == nil {
		return 0
	}

	row := model.Submission{
		AddressFrom: from,
		AddressTo:   to,
		AmountWei:   decimal.NewFromBigInt(amountWei, 0),
		Message:     message,
		Keyword:     keyword,
		Status:      model.SubmissionPending,
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		logger.Error("journal insert failed", zap.Error(err))
		return 0
	}
	return row.ID
}

// MarkNativeSent records the phase-1 wallet submission.
func (j *Journal) MarkNativeSent(ctx context.Context, id uint64, nativeHash string) {
	j.update(ctx, id, map[string]interface{}{
		"status":         model.SubmissionNativeSent,
		"native_tx_hash": nativeHash,
	})
}

// MarkConfirmed records a fully completed submission.
func (j *Journal) MarkConfirmed(ctx context.Context, id uint64, ledgerHash string) {
	j.update(ctx, id, map[string]interface{}{
		"status":         model.SubmissionConfirmed,
		"ledger_tx_hash": ledgerHash,
	})
}

// MarkPartial flags the native-moved-but-no-ledger-record gap.
func (j *Journal) MarkPartial(ctx context.Context, id uint64, cause string) {
	j.update(ctx, id, map[string]interface{}{
		"status":     model.SubmissionPartial,
		"fail_cause": cause,
	})
}

// MarkFailed records an attempt that aborted before any value moved.
func (j *Journal) MarkFailed(ctx context.Context, id uint64, cause string) {
	j.update(ctx, id, map[string]interface{}{
		"status":     model.SubmissionFailed,
		"fail_cause": cause,
	})
}

// Partials returns the unreconciled partial submissions, newest first.
func (j *Journal) Partials(ctx context.Context) ([]model.Submission, error) {
	if j == nil || j.db == nil {
		return nil, nil
	}

	var rows []model.Submission
	err := j.db.WithContext(ctx).
		Where("status = ?", model.SubmissionPartial).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (j *Journal) update(ctx context.Context, id uint64, fields map[string]interface{}) {
	if j == nil || j.db == nil || id == 0 {
		return
	}
	err := j.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("id = ?", id).
		Updates(fields).Error
	if err != nil {
		logger.Error("journal update failed", zap.Uint64("id", id), zap.Error(err))
	}
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Submission statuses. A submission moves pending → native_sent →
// confirmed; partial means the native value moved but the ledger record
// failed — those rows are the operator's reconciliation queue, nothing
// retries them automatically.
const (
	SubmissionPending    = "pending"
	SubmissionNativeSent = "native_sent"
	SubmissionConfirmed  = "confirmed"
	SubmissionPartial    = "partial"
	SubmissionFailed     = "failed"
)

// Submission is the durable journal row for one two-phase submit.
type Submission struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AddressFrom  string          `gorm:"type:varchar(64);not null;index" json:"address_from"`
	AddressTo    string          `gorm:"type:varchar(64);not null" json:"address_to"`
	AmountWei    decimal.Decimal `gorm:"type:decimal(32,0);not null" json:"amount_wei"`
	Message      string          `gorm:"type:text" json:"message"`
	Keyword      string          `gorm:"type:varchar(255)" json:"keyword"`
	NativeTxHash string          `gorm:"type:varchar(80)" json:"native_tx_hash"`
	LedgerTxHash string          `gorm:"type:varchar(80)" json:"ledger_tx_hash"`
	Status       string          `gorm:"type:varchar(32);not null;index" json:"status"`
	FailCause    string          `gorm:"type:text" json:"fail_cause,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

// AllModels lists every model for dev-mode AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{&Submission{}}
}

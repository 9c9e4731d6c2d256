package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReconciliationStatus string

const (
	TxUnmatched ReconciliationStatus = "unmatched"
	TxMatched   ReconciliationStatus = "matched"
	TxIgnored   ReconciliationStatus = "ignored"
)

// BankTransaction is an immutable fact pulled from the bank aggregator.
// Only ReconciliationStatus is ever mutated, by the reconciliation service.
type BankTransaction struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CondominiumID        uuid.UUID       `gorm:"type:uuid;index"`
	BankAccountID        uuid.UUID       `gorm:"type:uuid;index"`
	TransactionDate      time.Time       `gorm:"column:transaction_date"`
	Amount               decimal.Decimal `gorm:"type:numeric(14,2)"` // negative = debit, positive = credit
	RawLabel             string
	Label                string
	Counterparty         string
	ReconciliationStatus ReconciliationStatus `gorm:"index;default:unmatched"`
	CreatedAt            time.Time
}

// IsDebit reports the transaction direction: debits settle expense-side
// obligations, credits settle income-side ones.
func (t *BankTransaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

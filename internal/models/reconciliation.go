package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MatchType string

const (
	MatchManual MatchType = "manual"
	MatchAuto   MatchType = "auto"
)

type RecordStatus string

const (
	RecordPending   RecordStatus = "pending"
	RecordConfirmed RecordStatus = "confirmed"
	RecordRejected  RecordStatus = "rejected"
)

type QueueStatus string

const (
	QueuePending   QueueStatus = "pending"
	QueueSuggested QueueStatus = "suggested"
	QueueValidated QueueStatus = "validated"
	QueueRejected  QueueStatus = "rejected"
	QueueIgnored   QueueStatus = "ignored"
)

// Terminal reports whether a record instance can still move through the
// review lifecycle. Validated, rejected and ignored records are frozen;
// a later record for the same transaction supersedes them.
func (s QueueStatus) Terminal() bool {
	switch s {
	case QueueValidated, QueueRejected, QueueIgnored:
		return true
	}
	return false
}

// Reconciliation is a queue entry and, once confirmed, the audit record
// linking a bank transaction to the obligation it settled. Exactly one of
// the four target foreign keys is set, mirroring TargetType.
type Reconciliation struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CondominiumID     uuid.UUID  `gorm:"type:uuid;index"`
	BankTransactionID uuid.UUID  `gorm:"type:uuid;index"`
	TargetType        TargetType `gorm:"index"`
	InvoiceID         *uuid.UUID `gorm:"type:uuid"`
	UtilityBillID     *uuid.UUID `gorm:"type:uuid"`
	FundCallItemID    *uuid.UUID `gorm:"type:uuid"`
	PaymentID         *uuid.UUID `gorm:"type:uuid"`
	MatchType         MatchType
	Status            RecordStatus `gorm:"index"`
	QueueStatus       QueueStatus  `gorm:"index"`
	ConfidenceScore   *int
	MatchingDetails   datatypes.JSON
	MatchedBy         string
	MatchedAt         *time.Time
	Notes             string
	CreatedAt         time.Time
}

// TargetRef reads the populated foreign key as a tagged value.
func (r *Reconciliation) TargetRef() (TargetRef, error) {
	var id *uuid.UUID
	switch r.TargetType {
	case TargetInvoice:
		id = r.InvoiceID
	case TargetUtilityBill:
		id = r.UtilityBillID
	case TargetFundCallItem:
		id = r.FundCallItemID
	case TargetPayment:
		id = r.PaymentID
	default:
		return TargetRef{}, fmt.Errorf("record %s has no target type", r.ID)
	}
	if id == nil {
		return TargetRef{}, fmt.Errorf("record %s: target type %s set but foreign key is null", r.ID, r.TargetType)
	}
	return TargetRef{Type: r.TargetType, ID: *id}, nil
}

// SetTargetRef populates the foreign key matching ref.Type and clears the
// other three, keeping target identity consistent with the tag.
func (r *Reconciliation) SetTargetRef(ref TargetRef) {
	r.TargetType = ref.Type
	r.InvoiceID = nil
	r.UtilityBillID = nil
	r.FundCallItemID = nil
	r.PaymentID = nil
	id := ref.ID
	switch ref.Type {
	case TargetInvoice:
		r.InvoiceID = &id
	case TargetUtilityBill:
		r.UtilityBillID = &id
	case TargetFundCallItem:
		r.FundCallItemID = &id
	case TargetPayment:
		r.PaymentID = &id
	}
}

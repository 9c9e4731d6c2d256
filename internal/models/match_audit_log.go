package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchAuditLog traces every lifecycle action taken on a reconciliation
// record (confirm, reject, ignore, delete), independent of the record row
// itself, which Delete removes.
type MatchAuditLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	CondominiumID     uuid.UUID `gorm:"type:uuid;index"`
	ReconciliationID  uuid.UUID `gorm:"type:uuid;index"`
	BankTransactionID uuid.UUID `gorm:"type:uuid;index"`
	Action            string
	PerformedBy       string
	Reason            string
	CreatedAt         time.Time
}

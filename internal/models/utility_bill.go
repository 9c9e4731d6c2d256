package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UtilityBillStatus string

const (
	UtilityBillDraft       UtilityBillStatus = "draft"
	UtilityBillValidated   UtilityBillStatus = "validated"
	UtilityBillDistributed UtilityBillStatus = "distributed"
)

// UtilityBill is a provider bill (water, heating, electricity) awaiting
// distribution across lots. It has no partial-payment concept: a match
// settles it whole.
type UtilityBill struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CondominiumID uuid.UUID         `gorm:"type:uuid;index"`
	ProviderName  string            `gorm:"index"`
	TotalAmount   decimal.Decimal   `gorm:"type:numeric(14,2)"`
	Status        UtilityBillStatus `gorm:"index"`
	PeriodStart   time.Time
	PeriodEnd     time.Time
	CreatedAt     time.Time
}

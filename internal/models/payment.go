package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment is a manually recorded expected payment from an owner (income side).
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CondominiumID uuid.UUID       `gorm:"type:uuid;index"`
	OwnerName     string          `gorm:"index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	PaidAmount    decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status        PaymentStatus   `gorm:"index"`
	PaidAt        *time.Time
	CreatedAt     time.Time
}

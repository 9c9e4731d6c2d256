package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FundCallItemStatus string

const (
	FundCallItemPending FundCallItemStatus = "pending"
	FundCallItemPartial FundCallItemStatus = "partial"
	FundCallItemPaid    FundCallItemStatus = "paid"
	FundCallItemOverdue FundCallItemStatus = "overdue"
)

// FundCallItem is one owner's installment of a fund call (income side).
type FundCallItem struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"`
	CondominiumID uuid.UUID          `gorm:"type:uuid;index"`
	FundCallID    uuid.UUID          `gorm:"type:uuid;index"`
	OwnerName     string             `gorm:"index"`
	Amount        decimal.Decimal    `gorm:"type:numeric(14,2)"`
	PaidAmount    decimal.Decimal    `gorm:"type:numeric(14,2)"`
	Status        FundCallItemStatus `gorm:"index"`
	DueDate       time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
}

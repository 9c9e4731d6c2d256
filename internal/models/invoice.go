package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice is a supplier invoice owed by the condominium (expense side).
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CondominiumID uuid.UUID       `gorm:"type:uuid;index"`
	SupplierName  string          `gorm:"index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2)"`
	PaidAmount    decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status        InvoiceStatus   `gorm:"index"`
	DueDate       time.Time
	PaidAt        *time.Time
	CreatedAt     time.Time
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetSnapshot is a fresh read of one obligation: what the reconciliation
// core needs to score, display and settle it. Never cached.
type TargetSnapshot struct {
	Ref         TargetRef       `json:"ref"`
	Label       string          `json:"label"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

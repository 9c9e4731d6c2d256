package models

import (
	"fmt"

	"github.com/google/uuid"
)

// TargetType tags which obligation kind a reconciliation points at.
type TargetType string

const (
	TargetPayment      TargetType = "payment"
	TargetInvoice      TargetType = "invoice"
	TargetUtilityBill  TargetType = "utility_bill"
	TargetFundCallItem TargetType = "fund_call_item"
)

// ParseTargetType validates a wire-format target type.
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(s) {
	case TargetPayment, TargetInvoice, TargetUtilityBill, TargetFundCallItem:
		return TargetType(s), nil
	}
	return "", fmt.Errorf("unknown target type %q", s)
}

// TargetRef identifies one obligation. Code paths pass this value around
// instead of juggling the record's four nullable foreign keys.
type TargetRef struct {
	Type TargetType
	ID   uuid.UUID
}

func (r TargetRef) String() string {
	return string(r.Type) + ":" + r.ID.String()
}

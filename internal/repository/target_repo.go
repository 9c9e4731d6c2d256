package repository

import (
	"errors"
	"fmt"
	"time"

	"syndic-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TargetRepository reads and settles the four obligation kinds. It is the
// only place that dispatches on the TargetRef tag; everything above it works
// with TargetSnapshot values.
type TargetRepository struct {
	db *gorm.DB
}

func NewTargetRepository(db *gorm.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

func (r *TargetRepository) WithTx(tx *gorm.DB) *TargetRepository {
	return &TargetRepository{db: tx}
}

// Snapshot fetches one obligation fresh from the store.
func (r *TargetRepository) Snapshot(condoID uuid.UUID, ref models.TargetRef) (*models.TargetSnapshot, error) {
	switch ref.Type {
	case models.TargetInvoice:
		var inv models.Invoice
		if err := r.scoped(condoID, &inv, ref.ID); err != nil {
			return nil, err
		}
		due := inv.DueDate
		return &models.TargetSnapshot{
			Ref:         ref,
			Label:       inv.SupplierName,
			Status:      string(inv.Status),
			TotalAmount: inv.Amount,
			PaidAmount:  inv.PaidAmount,
			Outstanding: inv.Amount.Sub(inv.PaidAmount),
			DueDate:     &due,
		}, nil
	case models.TargetUtilityBill:
		var ub models.UtilityBill
		if err := r.scoped(condoID, &ub, ref.ID); err != nil {
			return nil, err
		}
		// Utility bills have no paid concept: the whole total is outstanding.
		return &models.TargetSnapshot{
			Ref:         ref,
			Label:       ub.ProviderName,
			Status:      string(ub.Status),
			TotalAmount: ub.TotalAmount,
			Outstanding: ub.TotalAmount,
		}, nil
	case models.TargetFundCallItem:
		var item models.FundCallItem
		if err := r.scoped(condoID, &item, ref.ID); err != nil {
			return nil, err
		}
		due := item.DueDate
		return &models.TargetSnapshot{
			Ref:         ref,
			Label:       item.OwnerName,
			Status:      string(item.Status),
			TotalAmount: item.Amount,
			PaidAmount:  item.PaidAmount,
			Outstanding: item.Amount.Sub(item.PaidAmount),
			DueDate:     &due,
		}, nil
	case models.TargetPayment:
		var p models.Payment
		if err := r.scoped(condoID, &p, ref.ID); err != nil {
			return nil, err
		}
		return &models.TargetSnapshot{
			Ref:         ref,
			Label:       p.OwnerName,
			Status:      string(p.Status),
			TotalAmount: p.Amount,
			PaidAmount:  p.PaidAmount,
			Outstanding: p.Amount.Sub(p.PaidAmount),
		}, nil
	}
	return nil, fmt.Errorf("unknown target type %q", ref.Type)
}

// ApplyPayment settles amount against the target and returns its new status.
// Invoices and utility bills are settled whole; fund-call items and payments
// accumulate toward partial/paid.
func (r *TargetRepository) ApplyPayment(condoID uuid.UUID, ref models.TargetRef, amount decimal.Decimal, now time.Time) (string, error) {
	switch ref.Type {
	case models.TargetInvoice:
		var inv models.Invoice
		if err := r.scoped(condoID, &inv, ref.ID); err != nil {
			return "", err
		}
		inv.Status = models.InvoicePaid
		inv.PaidAt = &now
		if err := r.db.Save(&inv).Error; err != nil {
			return "", err
		}
		return string(inv.Status), nil
	case models.TargetUtilityBill:
		var ub models.UtilityBill
		if err := r.scoped(condoID, &ub, ref.ID); err != nil {
			return "", err
		}
		ub.Status = models.UtilityBillDistributed
		if err := r.db.Save(&ub).Error; err != nil {
			return "", err
		}
		return string(ub.Status), nil
	case models.TargetFundCallItem:
		var item models.FundCallItem
		if err := r.scoped(condoID, &item, ref.ID); err != nil {
			return "", err
		}
		item.PaidAmount = item.PaidAmount.Add(amount)
		if item.PaidAmount.GreaterThanOrEqual(item.Amount) {
			item.Status = models.FundCallItemPaid
			item.PaidAt = &now
		} else {
			item.Status = models.FundCallItemPartial
		}
		if err := r.db.Save(&item).Error; err != nil {
			return "", err
		}
		return string(item.Status), nil
	case models.TargetPayment:
		var p models.Payment
		if err := r.scoped(condoID, &p, ref.ID); err != nil {
			return "", err
		}
		p.PaidAmount = p.PaidAmount.Add(amount)
		if p.PaidAmount.GreaterThanOrEqual(p.Amount) {
			p.Status = models.PaymentPaid
			p.PaidAt = &now
		} else {
			p.Status = models.PaymentPartial
		}
		if err := r.db.Save(&p).Error; err != nil {
			return "", err
		}
		return string(p.Status), nil
	}
	return "", fmt.Errorf("unknown target type %q", ref.Type)
}

// DebitCandidates lists still-outstanding expense-side obligations: pending
// invoices and draft or validated utility bills.
func (r *TargetRepository) DebitCandidates(condoID uuid.UUID) ([]models.TargetSnapshot, error) {
	var out []models.TargetSnapshot

	var invoices []models.Invoice
	err := r.db.
		Where("condominium_id = ? AND status = ?", condoID, models.InvoicePending).
		Where("amount - paid_amount > 0").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		inv := invoices[i]
		due := inv.DueDate
		out = append(out, models.TargetSnapshot{
			Ref:         models.TargetRef{Type: models.TargetInvoice, ID: inv.ID},
			Label:       inv.SupplierName,
			Status:      string(inv.Status),
			TotalAmount: inv.Amount,
			PaidAmount:  inv.PaidAmount,
			Outstanding: inv.Amount.Sub(inv.PaidAmount),
			DueDate:     &due,
		})
	}

	var bills []models.UtilityBill
	err = r.db.
		Where("condominium_id = ? AND status IN ?", condoID,
			[]models.UtilityBillStatus{models.UtilityBillDraft, models.UtilityBillValidated}).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	for i := range bills {
		ub := bills[i]
		out = append(out, models.TargetSnapshot{
			Ref:         models.TargetRef{Type: models.TargetUtilityBill, ID: ub.ID},
			Label:       ub.ProviderName,
			Status:      string(ub.Status),
			TotalAmount: ub.TotalAmount,
			Outstanding: ub.TotalAmount,
		})
	}
	return out, nil
}

// CreditCandidates lists still-outstanding income-side obligations:
// fund-call installments and expected owner payments.
func (r *TargetRepository) CreditCandidates(condoID uuid.UUID) ([]models.TargetSnapshot, error) {
	var out []models.TargetSnapshot

	var items []models.FundCallItem
	err := r.db.
		Where("condominium_id = ? AND status IN ?", condoID,
			[]models.FundCallItemStatus{models.FundCallItemPending, models.FundCallItemPartial, models.FundCallItemOverdue}).
		Where("amount - paid_amount > 0").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		item := items[i]
		due := item.DueDate
		out = append(out, models.TargetSnapshot{
			Ref:         models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID},
			Label:       item.OwnerName,
			Status:      string(item.Status),
			TotalAmount: item.Amount,
			PaidAmount:  item.PaidAmount,
			Outstanding: item.Amount.Sub(item.PaidAmount),
			DueDate:     &due,
		})
	}

	var payments []models.Payment
	err = r.db.
		Where("condominium_id = ? AND status IN ?", condoID,
			[]models.PaymentStatus{models.PaymentPending, models.PaymentPartial}).
		Where("amount - paid_amount > 0").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	for i := range payments {
		p := payments[i]
		out = append(out, models.TargetSnapshot{
			Ref:         models.TargetRef{Type: models.TargetPayment, ID: p.ID},
			Label:       p.OwnerName,
			Status:      string(p.Status),
			TotalAmount: p.Amount,
			PaidAmount:  p.PaidAmount,
			Outstanding: p.Amount.Sub(p.PaidAmount),
		})
	}
	return out, nil
}

func (r *TargetRepository) scoped(condoID uuid.UUID, dest any, id uuid.UUID) error {
	err := r.db.First(dest, "id = ? AND condominium_id = ?", id, condoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

package repository

import (
	"errors"

	"syndic-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a row does not exist or sits outside the
// caller's condominium scope.
var ErrNotFound = errors.New("not found")

type BankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: db}
}

// WithTx returns a repository bound to an open database transaction.
func (r *BankTransactionRepository) WithTx(tx *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: tx}
}

// Get fetches a transaction scoped to one condominium.
func (r *BankTransactionRepository) Get(condoID, txID uuid.UUID) (*models.BankTransaction, error) {
	var tx models.BankTransaction
	err := r.db.First(&tx, "id = ? AND condominium_id = ?", txID, condoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetForUpdate locks the transaction row for the duration of the enclosing
// database transaction, serializing concurrent confirms. SQLite locks the
// whole database on write, so the row lock only applies on Postgres.
func (r *BankTransactionRepository) GetForUpdate(condoID, txID uuid.UUID) (*models.BankTransaction, error) {
	q := r.db
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var tx models.BankTransaction
	err := q.First(&tx, "id = ? AND condominium_id = ?", txID, condoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// SetStatus flips the reconciliation status flag, the only mutation this
// core performs on a bank transaction.
func (r *BankTransactionRepository) SetStatus(txID uuid.UUID, status models.ReconciliationStatus) error {
	res := r.db.Model(&models.BankTransaction{}).
		Where("id = ?", txID).
		Update("reconciliation_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

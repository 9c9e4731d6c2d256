package repository

import (
	"errors"
	"time"

	"syndic-reconciliation-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

func (r *ReconciliationRepository) WithTx(tx *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: tx}
}

func (r *ReconciliationRepository) Create(rec *models.Reconciliation) error {
	return r.db.Create(rec).Error
}

func (r *ReconciliationRepository) Save(rec *models.Reconciliation) error {
	return r.db.Save(rec).Error
}

// Get fetches a record by ID, unscoped by condominium: the record-level
// routes address records directly.
func (r *ReconciliationRepository) Get(id uuid.UUID) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := r.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ReconciliationRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Reconciliation{}, "id = ?", id).Error
}

// FindConfirmed returns the confirmed record for a transaction, or
// ErrNotFound when none exists.
func (r *ReconciliationRepository) FindConfirmed(txID uuid.UUID) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	err := r.db.First(&rec,
		"bank_transaction_id = ? AND status = ?", txID, models.RecordConfirmed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeletePending removes any superseded pending record for a transaction.
func (r *ReconciliationRepository) DeletePending(txID uuid.UUID) error {
	return r.db.
		Where("bank_transaction_id = ? AND status = ?", txID, models.RecordPending).
		Delete(&models.Reconciliation{}).Error
}

// ActiveQueue lists the review queue: pending and suggested records for the
// condominium, oldest first, optionally narrowed to one queue status.
func (r *ReconciliationRepository) ActiveQueue(condoID uuid.UUID, status models.QueueStatus, limit int) ([]models.Reconciliation, error) {
	q := r.db.
		Where("condominium_id = ?", condoID).
		Order("created_at ASC").
		Limit(limit)
	if status != "" {
		q = q.Where("queue_status = ?", status)
	} else {
		q = q.Where("queue_status IN ?", []models.QueueStatus{models.QueuePending, models.QueueSuggested})
	}
	var recs []models.Reconciliation
	err := q.Find(&recs).Error
	return recs, err
}

// Suggested lists scored suggestions for the auto-matcher, capped to keep a
// batch run bounded.
func (r *ReconciliationRepository) Suggested(condoID uuid.UUID, limit int) ([]models.Reconciliation, error) {
	var recs []models.Reconciliation
	err := r.db.
		Where("condominium_id = ? AND queue_status = ?", condoID, models.QueueSuggested).
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

// ConfirmedHistory lists confirmed records, newest match first, within the
// optional [from, to] window on MatchedAt.
func (r *ReconciliationRepository) ConfirmedHistory(condoID uuid.UUID, from, to *time.Time, limit int) ([]models.Reconciliation, error) {
	q := r.db.
		Where("condominium_id = ? AND status = ?", condoID, models.RecordConfirmed).
		Order("matched_at DESC").
		Limit(limit)
	if from != nil {
		q = q.Where("matched_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("matched_at <= ?", *to)
	}
	var recs []models.Reconciliation
	err := q.Find(&recs).Error
	return recs, err
}

// QueueStatRow is one grouped row of the queue summary.
type QueueStatRow struct {
	QueueStatus models.QueueStatus
	Count       int64
}

// QueueStats groups record counts per queue status for one condominium.
func (r *ReconciliationRepository) QueueStats(condoID uuid.UUID) ([]QueueStatRow, error) {
	var rows []QueueStatRow
	err := r.db.Model(&models.Reconciliation{}).
		Where("condominium_id = ?", condoID).
		Select("queue_status, COUNT(*) as count").
		Group("queue_status").
		Scan(&rows).Error
	return rows, err
}

// AppendAudit writes one audit trail entry; audit rows outlive the records
// they describe.
func (r *ReconciliationRepository) AppendAudit(entry *models.MatchAuditLog) error {
	return r.db.Create(entry).Error
}

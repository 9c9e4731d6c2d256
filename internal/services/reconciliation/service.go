package reconciliation

import (
	"encoding/json"
	"errors"
	"time"

	"syndic-reconciliation-backend/internal/models"
	"syndic-reconciliation-backend/internal/repository"
	"syndic-reconciliation-backend/internal/services/matching"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound mirrors the repository sentinel for callers that only
	// import this package.
	ErrNotFound = repository.ErrNotFound
	// ErrAlreadyReconciled rejects a confirm on a transaction that already
	// carries a confirmed record.
	ErrAlreadyReconciled = errors.New("transaction already reconciled")
	// ErrTerminalRecord rejects reject/ignore on a validated, rejected or
	// ignored record.
	ErrTerminalRecord = errors.New("reconciliation record is terminal")
)

// Service owns the reconciliation lifecycle: queue review, match
// confirmation, batch auto-matching and the confirmed-match history.
type Service struct {
	db         *gorm.DB
	txRepo     *repository.BankTransactionRepository
	targets    *repository.TargetRepository
	records    *repository.ReconciliationRepository
	log        *zap.Logger
	batchLimit int
}

func NewService(
	db *gorm.DB,
	txRepo *repository.BankTransactionRepository,
	targets *repository.TargetRepository,
	records *repository.ReconciliationRepository,
	log *zap.Logger,
	batchLimit int,
) *Service {
	if batchLimit <= 0 {
		batchLimit = 500
	}
	return &Service{
		db:         db,
		txRepo:     txRepo,
		targets:    targets,
		records:    records,
		log:        log,
		batchLimit: batchLimit,
	}
}

// QueueEntry is one review-queue row enriched with the live transaction and,
// when a suggestion exists, a fresh target snapshot. Targets are never
// cached: a stale suggestion still shows current outstanding amounts.
type QueueEntry struct {
	Record      models.Reconciliation  `json:"record"`
	Transaction models.BankTransaction `json:"transaction"`
	Target      *models.TargetSnapshot `json:"target,omitempty"`
}

// Queue lists pending and suggested records for the condominium, oldest
// first, optionally narrowed to one queue status.
func (s *Service) Queue(condoID uuid.UUID, status models.QueueStatus) ([]QueueEntry, error) {
	recs, err := s.records.ActiveQueue(condoID, status, s.batchLimit)
	if err != nil {
		return nil, err
	}
	entries := make([]QueueEntry, 0, len(recs))
	for _, rec := range recs {
		tx, err := s.txRepo.Get(condoID, rec.BankTransactionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entry := QueueEntry{Record: rec, Transaction: *tx}
		if ref, refErr := rec.TargetRef(); refErr == nil {
			snap, snapErr := s.targets.Snapshot(condoID, ref)
			if snapErr == nil {
				entry.Target = snap
			} else if !errors.Is(snapErr, repository.ErrNotFound) {
				return nil, snapErr
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Candidates scores every plausible target for one transaction, best first.
// Direction comes from the amount sign: debits see expense-side obligations,
// credits see income-side ones. Ignored and already-matched transactions
// have no candidates.
func (s *Service) Candidates(condoID, txID uuid.UUID) ([]matching.ScoredCandidate, error) {
	tx, err := s.txRepo.Get(condoID, txID)
	if err != nil {
		return nil, err
	}
	if tx.ReconciliationStatus != models.TxUnmatched {
		return nil, ErrAlreadyReconciled
	}
	var targets []models.TargetSnapshot
	if tx.IsDebit() {
		targets, err = s.targets.DebitCandidates(condoID)
	} else {
		targets, err = s.targets.CreditCandidates(condoID)
	}
	if err != nil {
		return nil, err
	}
	return matching.Rank(tx, targets), nil
}

// Confirm applies a manual or automatic match: supersedes any pending
// record, writes the confirmed record, marks the transaction matched and
// settles the target. The four writes run as one database transaction; a
// concurrent confirm for the same bank transaction loses with
// ErrAlreadyReconciled.
func (s *Service) Confirm(condoID uuid.UUID, actor models.Actor, txID uuid.UUID, ref models.TargetRef, notes string) (*models.Reconciliation, error) {
	return s.confirm(condoID, actor, txID, ref, notes, nil)
}

func (s *Service) confirm(condoID uuid.UUID, actor models.Actor, txID uuid.UUID, ref models.TargetRef, notes string, score *int) (*models.Reconciliation, error) {
	var rec *models.Reconciliation
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		txRepo := s.txRepo.WithTx(dbtx)
		records := s.records.WithTx(dbtx)
		targets := s.targets.WithTx(dbtx)

		bankTx, err := txRepo.GetForUpdate(condoID, txID)
		if err != nil {
			return err
		}
		if _, err := records.FindConfirmed(txID); err == nil {
			return ErrAlreadyReconciled
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		snap, err := targets.Snapshot(condoID, ref)
		if err != nil {
			return err
		}

		if err := records.DeletePending(txID); err != nil {
			return err
		}

		now := time.Now().UTC()
		amount := bankTx.Amount.Abs()
		r := &models.Reconciliation{
			ID:                uuid.New(),
			CondominiumID:     condoID,
			BankTransactionID: txID,
			MatchType:         actor.MatchType(),
			Status:            models.RecordConfirmed,
			QueueStatus:       models.QueueValidated,
			ConfidenceScore:   score,
			MatchedBy:         actor.String(),
			MatchedAt:         &now,
			Notes:             notes,
			CreatedAt:         now,
		}
		r.SetTargetRef(ref)

		newStatus, err := targets.ApplyPayment(condoID, ref, amount, now)
		if err != nil {
			return err
		}

		details, _ := json.Marshal(map[string]any{
			"transaction_label":  bankTx.Label,
			"transaction_amount": bankTx.Amount,
			"target_label":       snap.Label,
			"target_outstanding": snap.Outstanding,
			"applied_amount":     amount,
			"new_target_status":  newStatus,
		})
		r.MatchingDetails = details

		if err := records.Create(r); err != nil {
			return err
		}
		if err := txRepo.SetStatus(txID, models.TxMatched); err != nil {
			return err
		}
		if err := records.AppendAudit(&models.MatchAuditLog{
			ID:                uuid.New(),
			CondominiumID:     condoID,
			ReconciliationID:  r.ID,
			BankTransactionID: txID,
			Action:            "confirm",
			PerformedBy:       actor.String(),
			CreatedAt:         now,
		}); err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("match confirmed",
		zap.String("transaction_id", txID.String()),
		zap.String("target", ref.String()),
		zap.String("matched_by", rec.MatchedBy))
	return rec, nil
}

// Reject dismisses a suggestion. The record stays for audit but leaves the
// active queue; the transaction and target are untouched.
func (s *Service) Reject(actor models.Actor, recordID uuid.UUID, reason string) (*models.Reconciliation, error) {
	rec, err := s.records.Get(recordID)
	if err != nil {
		return nil, err
	}
	if rec.QueueStatus.Terminal() {
		return nil, ErrTerminalRecord
	}
	rec.Status = models.RecordRejected
	rec.QueueStatus = models.QueueRejected
	rec.Notes = reason
	if err := s.records.Save(rec); err != nil {
		return nil, err
	}
	s.auditBestEffort(rec, "reject", actor, reason)
	return rec, nil
}

// Ignore excludes the transaction from future matching (internal transfers
// and the like) and freezes the record.
func (s *Service) Ignore(actor models.Actor, recordID uuid.UUID) (*models.Reconciliation, error) {
	rec, err := s.records.Get(recordID)
	if err != nil {
		return nil, err
	}
	if rec.QueueStatus.Terminal() {
		return nil, ErrTerminalRecord
	}
	err = s.db.Transaction(func(dbtx *gorm.DB) error {
		rec.QueueStatus = models.QueueIgnored
		if err := s.records.WithTx(dbtx).Save(rec); err != nil {
			return err
		}
		return s.txRepo.WithTx(dbtx).SetStatus(rec.BankTransactionID, models.TxIgnored)
	})
	if err != nil {
		return nil, err
	}
	s.auditBestEffort(rec, "ignore", actor, "")
	return rec, nil
}

// Delete removes a record and reverts the transaction to unmatched. The
// target's paid amount and status are deliberately left as confirmed:
// matches are one-way, corrections to the obligation are manual.
func (s *Service) Delete(actor models.Actor, recordID uuid.UUID) error {
	rec, err := s.records.Get(recordID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(dbtx *gorm.DB) error {
		if err := s.records.WithTx(dbtx).Delete(rec.ID); err != nil {
			return err
		}
		return s.txRepo.WithTx(dbtx).SetStatus(rec.BankTransactionID, models.TxUnmatched)
	})
	if err != nil {
		return err
	}
	s.auditBestEffort(rec, "delete", actor, "")
	return nil
}

// AutoMatchResult summarizes one batch run.
type AutoMatchResult struct {
	Matched int `json:"matched"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// AutoMatch confirms every suggested record at or above minConfidence on
// behalf of the system actor. A failing entry is counted as skipped and
// never aborts the batch; a concurrent manual confirm simply wins the race
// for its transaction.
func (s *Service) AutoMatch(condoID uuid.UUID, minConfidence int) (AutoMatchResult, error) {
	recs, err := s.records.Suggested(condoID, s.batchLimit)
	if err != nil {
		return AutoMatchResult{}, err
	}
	result := AutoMatchResult{Total: len(recs)}
	for _, rec := range recs {
		if rec.ConfidenceScore == nil || *rec.ConfidenceScore < minConfidence {
			result.Skipped++
			continue
		}
		ref, err := rec.TargetRef()
		if err != nil {
			result.Skipped++
			continue
		}
		score := *rec.ConfidenceScore
		if _, err := s.confirm(condoID, models.SystemActor(), rec.BankTransactionID, ref, "", &score); err != nil {
			s.log.Warn("auto-match entry skipped",
				zap.String("record_id", rec.ID.String()),
				zap.Error(err))
			result.Skipped++
			continue
		}
		result.Matched++
	}
	s.log.Info("auto-match batch done",
		zap.String("condominium_id", condoID.String()),
		zap.Int("matched", result.Matched),
		zap.Int("skipped", result.Skipped),
		zap.Int("total", result.Total))
	return result, nil
}

// HistoryEntry is one confirmed match denormalized for the audit trail.
type HistoryEntry struct {
	Record      models.Reconciliation  `json:"record"`
	Transaction models.BankTransaction `json:"transaction"`
	Target      *models.TargetSnapshot `json:"target,omitempty"`
}

const historyLimit = 100

// History lists up to 100 confirmed matches, newest first, optionally
// windowed on MatchedAt.
func (s *Service) History(condoID uuid.UUID, from, to *time.Time) ([]HistoryEntry, error) {
	recs, err := s.records.ConfirmedHistory(condoID, from, to, historyLimit)
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(recs))
	for _, rec := range recs {
		tx, err := s.txRepo.Get(condoID, rec.BankTransactionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entry := HistoryEntry{Record: rec, Transaction: *tx}
		if ref, refErr := rec.TargetRef(); refErr == nil {
			if snap, snapErr := s.targets.Snapshot(condoID, ref); snapErr == nil {
				entry.Target = snap
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// QueueStats aggregates record counts per queue status.
type QueueStats struct {
	Pending   int64 `json:"pending"`
	Suggested int64 `json:"suggested"`
	Validated int64 `json:"validated"`
	Rejected  int64 `json:"rejected"`
	Ignored   int64 `json:"ignored"`
	Total     int64 `json:"total"`
}

func (s *Service) Stats(condoID uuid.UUID) (QueueStats, error) {
	rows, err := s.records.QueueStats(condoID)
	if err != nil {
		return QueueStats{}, err
	}
	var stats QueueStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.QueueStatus {
		case models.QueuePending:
			stats.Pending = row.Count
		case models.QueueSuggested:
			stats.Suggested = row.Count
		case models.QueueValidated:
			stats.Validated = row.Count
		case models.QueueRejected:
			stats.Rejected = row.Count
		case models.QueueIgnored:
			stats.Ignored = row.Count
		}
	}
	return stats, nil
}

// Audit rows are trail, not truth: losing one must not fail the operation
// that already committed.
func (s *Service) auditBestEffort(rec *models.Reconciliation, action string, actor models.Actor, reason string) {
	err := s.records.AppendAudit(&models.MatchAuditLog{
		ID:                uuid.New(),
		CondominiumID:     rec.CondominiumID,
		ReconciliationID:  rec.ID,
		BankTransactionID: rec.BankTransactionID,
		Action:            action,
		PerformedBy:       actor.String(),
		Reason:            reason,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("audit write failed",
			zap.String("record_id", rec.ID.String()),
			zap.String("action", action),
			zap.Error(err))
	}
}

package reconciliation

import (
	"fmt"
	"testing"
	"time"

	"syndic-reconciliation-backend/internal/models"
	"syndic-reconciliation-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.BankTransaction{},
		&models.Invoice{},
		&models.UtilityBill{},
		&models.FundCallItem{},
		&models.Payment{},
		&models.Reconciliation{},
		&models.MatchAuditLog{},
	))
	require.NoError(t, repository.EnsureIndexes(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(
		db,
		repository.NewBankTransactionRepository(db),
		repository.NewTargetRepository(db),
		repository.NewReconciliationRepository(db),
		zap.NewNop(),
		0,
	)
	return svc, db
}

func seedTransaction(t *testing.T, db *gorm.DB, condoID uuid.UUID, amount, label string) *models.BankTransaction {
	t.Helper()
	tx := &models.BankTransaction{
		ID:                   uuid.New(),
		CondominiumID:        condoID,
		BankAccountID:        uuid.New(),
		TransactionDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:               dec(amount),
		RawLabel:             label,
		Label:                label,
		ReconciliationStatus: models.TxUnmatched,
		CreatedAt:            time.Now().UTC(),
	}
	require.NoError(t, db.Create(tx).Error)
	return tx
}

func seedFundCallItem(t *testing.T, db *gorm.DB, condoID uuid.UUID, owner, amount string) *models.FundCallItem {
	t.Helper()
	item := &models.FundCallItem{
		ID:            uuid.New(),
		CondominiumID: condoID,
		FundCallID:    uuid.New(),
		OwnerName:     owner,
		Amount:        dec(amount),
		PaidAmount:    decimal.Zero,
		Status:        models.FundCallItemPending,
		DueDate:       time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedInvoice(t *testing.T, db *gorm.DB, condoID uuid.UUID, supplier, amount string) *models.Invoice {
	t.Helper()
	inv := &models.Invoice{
		ID:            uuid.New(),
		CondominiumID: condoID,
		SupplierName:  supplier,
		Amount:        dec(amount),
		PaidAmount:    decimal.Zero,
		Status:        models.InvoicePending,
		DueDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func seedSuggestion(t *testing.T, db *gorm.DB, condoID uuid.UUID, txID uuid.UUID, ref models.TargetRef, score int) *models.Reconciliation {
	t.Helper()
	rec := &models.Reconciliation{
		ID:                uuid.New(),
		CondominiumID:     condoID,
		BankTransactionID: txID,
		Status:            models.RecordPending,
		QueueStatus:       models.QueueSuggested,
		ConfidenceScore:   &score,
		CreatedAt:         time.Now().UTC(),
	}
	rec.SetTargetRef(ref)
	require.NoError(t, db.Create(rec).Error)
	return rec
}

func TestConfirmSettlesFundCallItem(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()
	actor := models.UserActor(uuid.New())

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT JEAN CHARGES Q4")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	rec, err := svc.Confirm(condoID, actor, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "quarterly charges")
	require.NoError(t, err)

	assert.Equal(t, models.RecordConfirmed, rec.Status)
	assert.Equal(t, models.QueueValidated, rec.QueueStatus)
	assert.Equal(t, models.MatchManual, rec.MatchType)
	require.NotNil(t, rec.MatchedAt)
	require.NotNil(t, rec.FundCallItemID)
	assert.Equal(t, item.ID, *rec.FundCallItemID)

	var got models.FundCallItem
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	assert.True(t, got.PaidAmount.Equal(dec("450.00")), "paid amount = %s", got.PaidAmount)
	assert.Equal(t, models.FundCallItemPaid, got.Status)
	assert.NotNil(t, got.PaidAt)

	var gotTx models.BankTransaction
	require.NoError(t, db.First(&gotTx, "id = ?", tx.ID).Error)
	assert.Equal(t, models.TxMatched, gotTx.ReconciliationStatus)
}

func TestConfirmPartialFundCallItem(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "200.00", "VIREMENT MARTIN")
	item := seedFundCallItem(t, db, condoID, "Claire Martin", "450.00")

	_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	require.NoError(t, err)

	var got models.FundCallItem
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	assert.True(t, got.PaidAmount.Equal(dec("200.00")))
	assert.Equal(t, models.FundCallItemPartial, got.Status)
	assert.Nil(t, got.PaidAt, "PaidAt is only set on full settlement")
}

func TestConfirmInvoiceIsFullSettlement(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	// The debit differs from the invoice amount; invoices are still matched whole.
	tx := seedTransaction(t, db, condoID, "-1150.00", "PRLV ASSURANCE MMA IMMEUBLE")
	inv := seedInvoice(t, db, condoID, "MMA", "1200.00")

	rec, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetInvoice, ID: inv.ID}, "")
	require.NoError(t, err)
	assert.Equal(t, models.TargetInvoice, rec.TargetType)

	var got models.Invoice
	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	assert.Equal(t, models.InvoicePaid, got.Status)
	assert.NotNil(t, got.PaidAt)
}

func TestConfirmUtilityBillDistributes(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "-320.40", "PRLV EDF ENERGIE")
	ub := &models.UtilityBill{
		ID:            uuid.New(),
		CondominiumID: condoID,
		ProviderName:  "EDF",
		TotalAmount:   dec("320.40"),
		Status:        models.UtilityBillValidated,
	}
	require.NoError(t, db.Create(ub).Error)

	_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetUtilityBill, ID: ub.ID}, "")
	require.NoError(t, err)

	var got models.UtilityBill
	require.NoError(t, db.First(&got, "id = ?", ub.ID).Error)
	assert.Equal(t, models.UtilityBillDistributed, got.Status)
}

func TestConfirmTwiceFailsWithConflict(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	first := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	second := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: first.ID}, "")
	require.NoError(t, err)

	_, err = svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: second.ID}, "")
	assert.ErrorIs(t, err, ErrAlreadyReconciled)

	// The loser must not have touched its target.
	var got models.FundCallItem
	require.NoError(t, db.First(&got, "id = ?", second.ID).Error)
	assert.True(t, got.PaidAmount.IsZero())
	assert.Equal(t, models.FundCallItemPending, got.Status)
}

func TestConfirmSupersedesPendingRecord(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	stale := seedSuggestion(t, db, condoID, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 60)

	rec, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, rec.ID)

	var count int64
	require.NoError(t, db.Model(&models.Reconciliation{}).
		Where("bank_transaction_id = ?", tx.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "pending record must be superseded, not kept")
}

func TestConfirmUnknownTransaction(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), uuid.New(),
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmTransactionOutsideScope(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()
	otherCondo := uuid.New()

	tx := seedTransaction(t, db, otherCondo, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectLeavesTransactionAndTargetAlone(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	rec := seedSuggestion(t, db, condoID, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 60)

	got, err := svc.Reject(models.UserActor(uuid.New()), rec.ID, "wrong owner")
	require.NoError(t, err)
	assert.Equal(t, models.RecordRejected, got.Status)
	assert.Equal(t, models.QueueRejected, got.QueueStatus)
	assert.Equal(t, "wrong owner", got.Notes)

	var gotTx models.BankTransaction
	require.NoError(t, db.First(&gotTx, "id = ?", tx.ID).Error)
	assert.Equal(t, models.TxUnmatched, gotTx.ReconciliationStatus)

	var gotItem models.FundCallItem
	require.NoError(t, db.First(&gotItem, "id = ?", item.ID).Error)
	assert.True(t, gotItem.PaidAmount.IsZero())
}

func TestRejectTerminalRecordFails(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	rec := seedSuggestion(t, db, condoID, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 60)

	_, err := svc.Reject(models.UserActor(uuid.New()), rec.ID, "first")
	require.NoError(t, err)

	_, err = svc.Reject(models.UserActor(uuid.New()), rec.ID, "second")
	assert.ErrorIs(t, err, ErrTerminalRecord)

	_, err = svc.Ignore(models.UserActor(uuid.New()), rec.ID)
	assert.ErrorIs(t, err, ErrTerminalRecord)
}

func TestIgnoreExcludesTransaction(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "-75.00", "VIR INTERNE COMPTE TRAVAUX")
	rec := &models.Reconciliation{
		ID:                uuid.New(),
		CondominiumID:     condoID,
		BankTransactionID: tx.ID,
		Status:            models.RecordPending,
		QueueStatus:       models.QueuePending,
		CreatedAt:         time.Now().UTC(),
	}
	require.NoError(t, db.Create(rec).Error)

	got, err := svc.Ignore(models.UserActor(uuid.New()), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QueueIgnored, got.QueueStatus)

	var gotTx models.BankTransaction
	require.NoError(t, db.First(&gotTx, "id = ?", tx.ID).Error)
	assert.Equal(t, models.TxIgnored, gotTx.ReconciliationStatus)

	// Ignored transactions are out of the active queue and have no candidates.
	entries, err := svc.Queue(condoID, "")
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = svc.Candidates(condoID, tx.ID)
	assert.ErrorIs(t, err, ErrAlreadyReconciled)
}

func TestDeleteRevertsTransactionButNotTarget(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT JEAN CHARGES Q4")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	rec, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(models.UserActor(uuid.New()), rec.ID))

	var gotTx models.BankTransaction
	require.NoError(t, db.First(&gotTx, "id = ?", tx.ID).Error)
	assert.Equal(t, models.TxUnmatched, gotTx.ReconciliationStatus)

	// The settlement applied at confirmation time stays: corrections to the
	// obligation are manual.
	var gotItem models.FundCallItem
	require.NoError(t, db.First(&gotItem, "id = ?", item.ID).Error)
	assert.True(t, gotItem.PaidAmount.Equal(dec("450.00")))
	assert.Equal(t, models.FundCallItemPaid, gotItem.Status)

	err = db.First(&models.Reconciliation{}, "id = ?", rec.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAutoMatchRespectsThreshold(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	txA := seedTransaction(t, db, condoID, "-1200.00", "PRLV ASSURANCE MMA IMMEUBLE")
	invA := seedInvoice(t, db, condoID, "MMA", "1200.00")
	seedSuggestion(t, db, condoID, txA.ID,
		models.TargetRef{Type: models.TargetInvoice, ID: invA.ID}, 50)

	txB := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT JEAN CHARGES Q4")
	itemB := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	seedSuggestion(t, db, condoID, txB.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: itemB.ID}, 60)

	result, err := svc.AutoMatch(condoID, 85)
	require.NoError(t, err)
	assert.Equal(t, AutoMatchResult{Matched: 0, Skipped: 2, Total: 2}, result)

	// Nothing below the threshold may be confirmed.
	var gotTx models.BankTransaction
	require.NoError(t, db.First(&gotTx, "id = ?", txA.ID).Error)
	assert.Equal(t, models.TxUnmatched, gotTx.ReconciliationStatus)
}

func TestAutoMatchConfirmsHighConfidence(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT JEAN CHARGES Q4")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	seedSuggestion(t, db, condoID, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 90)

	result, err := svc.AutoMatch(condoID, 85)
	require.NoError(t, err)
	assert.Equal(t, AutoMatchResult{Matched: 1, Skipped: 0, Total: 1}, result)

	var rec models.Reconciliation
	require.NoError(t, db.First(&rec,
		"bank_transaction_id = ? AND status = ?", tx.ID, models.RecordConfirmed).Error)
	assert.Equal(t, models.MatchAuto, rec.MatchType)
	assert.Equal(t, "system", rec.MatchedBy)
	require.NotNil(t, rec.ConfidenceScore)
	assert.Equal(t, 90, *rec.ConfidenceScore)
}

func TestAutoMatchIsolatesFailures(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	// First suggestion points at a target that no longer exists.
	txA := seedTransaction(t, db, condoID, "100.00", "VIREMENT A")
	seedSuggestion(t, db, condoID, txA.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: uuid.New()}, 95)

	txB := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	itemB := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	seedSuggestion(t, db, condoID, txB.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: itemB.ID}, 95)

	result, err := svc.AutoMatch(condoID, 85)
	require.NoError(t, err)
	assert.Equal(t, AutoMatchResult{Matched: 1, Skipped: 1, Total: 2}, result)

	var gotTx models.BankTransaction
	require.NoError(t, db.First(&gotTx, "id = ?", txB.ID).Error)
	assert.Equal(t, models.TxMatched, gotTx.ReconciliationStatus)
}

func TestCandidatesAreDirectionFiltered(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	// Expense-side and income-side targets with the same amount.
	seedInvoice(t, db, condoID, "MMA", "450.00")
	seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	credit := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT JEAN")
	candidates, err := svc.Candidates(condoID, credit.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TargetFundCallItem, candidates[0].Target.Ref.Type)

	debit := seedTransaction(t, db, condoID, "-450.00", "PRLV MMA")
	candidates, err = svc.Candidates(condoID, debit.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.TargetInvoice, candidates[0].Target.Ref.Type)
}

func TestCandidatesSkipSettledTargets(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	paid := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	require.NoError(t, db.Model(paid).Updates(map[string]any{
		"status":      models.FundCallItemPaid,
		"paid_amount": dec("450.00"),
	}).Error)
	seedFundCallItem(t, db, condoID, "Claire Martin", "450.00")

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT")
	candidates, err := svc.Candidates(condoID, tx.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Claire Martin", candidates[0].Target.Label)
}

func TestQueueEnrichmentIsFresh(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	seedSuggestion(t, db, condoID, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 60)

	// The obligation moves under the stale suggestion.
	require.NoError(t, db.Model(item).Updates(map[string]any{
		"paid_amount": dec("150.00"),
		"status":      models.FundCallItemPartial,
	}).Error)

	entries, err := svc.Queue(condoID, models.QueueSuggested)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Target)
	assert.True(t, entries[0].Target.Outstanding.Equal(dec("300.00")),
		"queue must show the live outstanding amount, got %s", entries[0].Target.Outstanding)
	assert.Equal(t, tx.ID, entries[0].Transaction.ID)
}

func TestQueueStatusFilter(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	txA := seedTransaction(t, db, condoID, "100.00", "VIREMENT A")
	pending := &models.Reconciliation{
		ID:                uuid.New(),
		CondominiumID:     condoID,
		BankTransactionID: txA.ID,
		Status:            models.RecordPending,
		QueueStatus:       models.QueuePending,
		CreatedAt:         time.Now().UTC(),
	}
	require.NoError(t, db.Create(pending).Error)

	txB := seedTransaction(t, db, condoID, "450.00", "VIREMENT B")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	seedSuggestion(t, db, condoID, txB.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 60)

	all, err := svc.Queue(condoID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	suggested, err := svc.Queue(condoID, models.QueueSuggested)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, models.QueueSuggested, suggested[0].Record.QueueStatus)
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	var txIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
		item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
		_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
			models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
		require.NoError(t, err)
		txIDs = append(txIDs, tx.ID)
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := svc.History(condoID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i-1].Record.MatchedAt.Before(*entries[i].Record.MatchedAt))
	}
	assert.Equal(t, txIDs[2], entries[0].Transaction.ID)
}

func TestHistoryWindow(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	_, err := svc.Confirm(condoID, models.UserActor(uuid.New()), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	entries, err := svc.History(condoID, &past, &future)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = svc.History(condoID, &future, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStatsGroupsByQueueStatus(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")
	seedSuggestion(t, db, condoID, tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, 90)

	_, err := svc.AutoMatch(condoID, 85)
	require.NoError(t, err)

	stats, err := svc.Stats(condoID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Validated)
	assert.EqualValues(t, 0, stats.Suggested)
	assert.EqualValues(t, 1, stats.Total)
}

func TestConfirmWritesAuditTrail(t *testing.T) {
	svc, db := newTestService(t)
	condoID := uuid.New()
	userID := uuid.New()

	tx := seedTransaction(t, db, condoID, "450.00", "VIREMENT DUPONT")
	item := seedFundCallItem(t, db, condoID, "Jean Dupont", "450.00")

	rec, err := svc.Confirm(condoID, models.UserActor(userID), tx.ID,
		models.TargetRef{Type: models.TargetFundCallItem, ID: item.ID}, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(models.UserActor(userID), rec.ID))

	var logs []models.MatchAuditLog
	require.NoError(t, db.
		Where("bank_transaction_id = ?", tx.ID).
		Order("created_at ASC").
		Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "confirm", logs[0].Action)
	assert.Equal(t, userID.String(), logs[0].PerformedBy)
	assert.Equal(t, "delete", logs[1].Action)
}

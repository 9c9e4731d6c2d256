package repository

import "gorm.io/gorm"

// EnsureIndexes creates the constraints AutoMigrate cannot express. The
// partial unique index backs the at-most-one-confirmed-match-per-transaction
// invariant at the database level; the service re-checks it logically inside
// the confirm transaction.
func EnsureIndexes(db *gorm.DB) error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reconciliations_confirmed_tx
		 ON reconciliations (bank_transaction_id) WHERE status = 'confirmed'`,
	).Error
}

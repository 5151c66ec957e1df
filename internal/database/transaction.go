package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// TransactionFunc runs fn inside a single database transaction.
type TransactionFunc func(ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error

// Transactor returns a TransactionFunc bound to db.
func Transactor(db *gorm.DB) TransactionFunc {
	return func(ctx context.Context, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
		var o *sql.TxOptions
		if len(opts) > 0 {
			o = opts[0]
		}
		return db.WithContext(ctx).Transaction(fn, o)
	}
}

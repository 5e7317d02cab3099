package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTxManager runs a function inside one database transaction. The
// transaction handle travels in the context, so every repository call
// made with that context joins the same transaction. This is what makes
// check-then-insert booking creation and the payment-plus-confirm write
// pair atomic.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager over the given connection.
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTx executes fn inside a transaction. The transaction commits if
// fn returns nil and rolls back otherwise.
func (m *GormTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the ambient transaction from the context, or the
// repository's base connection when none is open.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}

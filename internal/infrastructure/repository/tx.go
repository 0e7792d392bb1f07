package repository

import (
	"context"

	domainRepo "github.com/brechoria/brecho-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ctxKey string

// txKey is the context key carrying the ambient gorm transaction.
// Repositories resolve their handle through db(), so every call made
// inside TxManager.Do joins the same transaction without the services
// having to pass *gorm.DB around.
const txKey ctxKey = "gorm_tx"

// WithTx stores a transaction handle in the context
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// db resolves the database handle for a repository call: the ambient
// transaction when one is present, the base connection otherwise.
func db(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates the transaction manager backing atomic units of
// work (checkout, monthly cycle, drawer close).
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested Do joins the outer transaction instead of opening a new one.
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

// forUpdate applies a row-level write lock on dialects that support
// it. Postgres serializes concurrent checkouts of one piece this way;
// sqlite (tests) relies on its single-writer lock, and FOR UPDATE is
// not valid syntax there.
func forUpdate(q *gorm.DB) *gorm.DB {
	if q.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

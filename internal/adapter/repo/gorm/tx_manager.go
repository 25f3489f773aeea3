package gormrepo

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type txKeyType struct{}

var txKey = txKeyType{}

// conn returns the transaction carried by ctx, or base outside of one.
func conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}

// TxManager runs a controller tick or a status read in one repeatable-read
// transaction. A call inside an open transaction joins it.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
}

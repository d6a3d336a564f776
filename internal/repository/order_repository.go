package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Record Storeの契約はコレクション単位の全件read/全件writeのみ。
// 部分更新verbは存在しない。呼び出し側がread-modify-write-allする。
type OrderRepository interface {
	ReadAll(ctx context.Context) ([]model.Order, error)
	WriteAll(ctx context.Context, orders []model.Order) error
}

package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) ReadAll(ctx context.Context) ([]model.Order, error) {
	var items []model.Order
	// 作成順で安定した並びにする（追跡対象の選択が揺れないように）
	err := r.db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) WriteAll(ctx context.Context, orders []model.Order) error {
	// スナップショット全置換。delete-all → insert-all を1トランザクションで
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Order{}).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}
		return tx.Create(&orders).Error
	})
}

package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type RestaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) *RestaurantGormRepository {
	return &RestaurantGormRepository{db: db}
}

func (r *RestaurantGormRepository) ReadAll(ctx context.Context) ([]model.Restaurant, error) {
	var items []model.Restaurant
	err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, err
	}
	return items, nil
}

func (r *RestaurantGormRepository) WriteAll(ctx context.Context, restaurants []model.Restaurant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Restaurant{}).Error; err != nil {
			return err
		}
		if len(restaurants) == 0 {
			return nil
		}
		return tx.Create(&restaurants).Error
	})
}

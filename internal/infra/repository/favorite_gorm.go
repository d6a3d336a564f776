package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) ReadAll(ctx context.Context) ([]string, error) {
	var rows []model.Favorite
	err := r.db.WithContext(ctx).
		Order("restaurant_id asc").
		Find(&rows).Error
	if err != nil {
		return []string{}, err
	}

	ids := make([]string, 0, len(rows))
	for _, f := range rows {
		ids = append(ids, f.RestaurantID)
	}
	return ids, nil
}

func (r *FavoriteGormRepository) WriteAll(ctx context.Context, restaurantIDs []string) error {
	rows := make([]model.Favorite, 0, len(restaurantIDs))
	for _, id := range restaurantIDs {
		rows = append(rows, model.Favorite{RestaurantID: id})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

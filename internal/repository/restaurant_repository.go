package repository

import (
	"context"

	"app/internal/domain/model"
)

type RestaurantRepository interface {
	ReadAll(ctx context.Context) ([]model.Restaurant, error)
	WriteAll(ctx context.Context, restaurants []model.Restaurant) error
}

package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 店側の操作（メニューのON/OFF、バナー編集）。
// 店コレクションもread-modify-write-allで更新する
type RestaurantUsecase struct {
	restaurants repo.RestaurantRepository
}

func NewRestaurantUsecase(restaurants repo.RestaurantRepository) *RestaurantUsecase {
	return &RestaurantUsecase{restaurants: restaurants}
}

func (u *RestaurantUsecase) List(ctx context.Context) ([]model.Restaurant, error) {
	restaurants, err := u.restaurants.ReadAll(ctx)
	if err != nil {
		return []model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return restaurants, nil
}

// ToggleMenuItem は商品の販売可否を反転する
func (u *RestaurantUsecase) ToggleMenuItem(ctx context.Context, restaurantID string, itemID string) (model.Restaurant, error) {
	restaurants, err := u.restaurants.ReadAll(ctx)
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	for i := range restaurants {
		if restaurants[i].ID != restaurantID {
			continue
		}
		for j := range restaurants[i].Menu {
			if restaurants[i].Menu[j].ID != itemID {
				continue
			}
			restaurants[i].Menu[j].IsAvailable = !restaurants[i].Menu[j].IsAvailable

			if err := u.restaurants.WriteAll(ctx, restaurants); err != nil {
				return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "store error")
			}
			return restaurants[i], nil
		}
		return model.Restaurant{}, WrapHTTPError(http.StatusNotFound, "menu item not found", repo.ErrNotFound)
	}

	return model.Restaurant{}, WrapHTTPError(http.StatusNotFound, "restaurant not found", repo.ErrNotFound)
}

// UpdateBanners はプロモバナーを丸ごと入れ替える
func (u *RestaurantUsecase) UpdateBanners(ctx context.Context, restaurantID string, banners []string) (model.Restaurant, error) {
	restaurants, err := u.restaurants.ReadAll(ctx)
	if err != nil {
		return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	for i := range restaurants {
		if restaurants[i].ID != restaurantID {
			continue
		}
		restaurants[i].PromoBanners = banners

		if err := u.restaurants.WriteAll(ctx, restaurants); err != nil {
			return model.Restaurant{}, NewHTTPError(http.StatusInternalServerError, "store error")
		}
		return restaurants[i], nil
	}

	return model.Restaurant{}, WrapHTTPError(http.StatusNotFound, "restaurant not found", repo.ErrNotFound)
}

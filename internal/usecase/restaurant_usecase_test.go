package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestRestaurantUsecase_ToggleMenuItem_FlipsAvailability(t *testing.T) {
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := usecase.NewRestaurantUsecase(restaurants)

	out, err := uc.ToggleMenuItem(context.Background(), "r1", "m1")
	assert.NoError(t, err)
	assert.False(t, out.Menu[0].IsAvailable)

	// もう一度で元に戻る
	out, err = uc.ToggleMenuItem(context.Background(), "r1", "m1")
	assert.NoError(t, err)
	assert.True(t, out.Menu[0].IsAvailable)
}

func TestRestaurantUsecase_ToggleMenuItem_NotFound(t *testing.T) {
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := usecase.NewRestaurantUsecase(restaurants)

	_, err := uc.ToggleMenuItem(context.Background(), "r1", "m999")
	assertErrContains(t, err, "menu item not found")

	_, err = uc.ToggleMenuItem(context.Background(), "r999", "m1")
	assertErrContains(t, err, "restaurant not found")
}

func TestRestaurantUsecase_UpdateBanners_ReplacesWholesale(t *testing.T) {
	restaurants := &memoryRestaurantRepo{restaurants: []model.Restaurant{testRestaurant()}}
	uc := usecase.NewRestaurantUsecase(restaurants)

	banners := []string{"summer-sale", "new-menu"}
	out, err := uc.UpdateBanners(context.Background(), "r1", banners)
	assert.NoError(t, err)
	assert.Equal(t, banners, out.PromoBanners)
	assert.Equal(t, banners, restaurants.restaurants[0].PromoBanners)
}

func TestFavoriteUsecase_Toggle_AddAndRemove(t *testing.T) {
	favorites := &memoryFavoriteRepo{}
	uc := usecase.NewFavoriteUsecase(favorites)

	out, err := uc.Toggle(context.Background(), "r1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"r1"}, out)

	out, err = uc.Toggle(context.Background(), "r2")
	assert.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2"}, out)

	// 既にあるものは外す
	out, err = uc.Toggle(context.Background(), "r1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"r2"}, out)
}

type memoryFavoriteRepo struct {
	ids []string
}

func (r *memoryFavoriteRepo) ReadAll(ctx context.Context) ([]string, error) {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out, nil
}

func (r *memoryFavoriteRepo) WriteAll(ctx context.Context, ids []string) error {
	r.ids = make([]string, len(ids))
	copy(r.ids, ids)
	return nil
}

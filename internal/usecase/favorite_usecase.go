package usecase

import (
	"context"
	"net/http"
	"strings"

	repo "app/internal/repository"
)

type FavoriteUsecase struct {
	favorites repo.FavoriteRepository
}

func NewFavoriteUsecase(favorites repo.FavoriteRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favorites: favorites}
}

func (u *FavoriteUsecase) List(ctx context.Context) ([]string, error) {
	ids, err := u.favorites.ReadAll(ctx)
	if err != nil {
		return []string{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}
	return ids, nil
}

// Toggle は集合に入っていれば外し、なければ足す。更新後の集合を返す
func (u *FavoriteUsecase) Toggle(ctx context.Context, restaurantID string) ([]string, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return []string{}, NewHTTPError(http.StatusBadRequest, "invalid restaurant_id")
	}

	ids, err := u.favorites.ReadAll(ctx)
	if err != nil {
		return []string{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	updated := make([]string, 0, len(ids)+1)
	removed := false
	for _, id := range ids {
		if id == restaurantID {
			removed = true
			continue
		}
		updated = append(updated, id)
	}
	if !removed {
		updated = append(updated, restaurantID)
	}

	if err := u.favorites.WriteAll(ctx, updated); err != nil {
		return []string{}, NewHTTPError(http.StatusInternalServerError, "store error")
	}

	return updated, nil
}

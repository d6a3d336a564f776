package repository

import "context"

// お気に入りは店ID集合。toggleはusecase側でread → 入れ替え → 全件write
type FavoriteRepository interface {
	ReadAll(ctx context.Context) ([]string, error)
	WriteAll(ctx context.Context, restaurantIDs []string) error
}

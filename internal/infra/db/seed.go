package db

import (
	"context"

	"app/internal/domain/model"
	"app/internal/repository"
)

// デモ用の初期データ。ストアが空のときだけ投入する
var seedRestaurants = []model.Restaurant{
	{
		ID:           "r1",
		Name:         "Diamond Grill House",
		Rating:       4.8,
		DeliveryTime: "20-30 min",
		Tags:         []string{"Steak", "Premium", "American"},
		IsOpen:       true,
		DeliveryFee:  1.5,
		MinOrder:     15,
		PromoText:    "Buy 1 Get 1",
		PromoBanners: []string{"banner-grill-1", "banner-grill-2"},
		Menu: []model.MenuItem{
			{ID: "m1", Name: "Signature Diamond Steak", Description: "Wagyu beef with truffle butter", Price: 45, Category: "Main", IsAvailable: true, SalesCount: 124},
			{ID: "m2", Name: "Gilded Wings", Description: "Honey glazed gold-dusted wings", Price: 18, Category: "Starters", IsAvailable: true, SalesCount: 342},
		},
		HistoricalAvgMinutes: 25,
	},
	{
		ID:           "r2",
		Name:         "Zen Sushi Hub",
		Rating:       4.6,
		DeliveryTime: "15-25 min",
		Tags:         []string{"Japanese", "Sushi", "Healthy"},
		IsOpen:       true,
		DeliveryFee:  0.99,
		MinOrder:     10,
		Menu: []model.MenuItem{
			{ID: "m3", Name: "Rainbow Roll", Description: "Fresh salmon, tuna and avocado", Price: 22, Category: "Sushi", IsAvailable: true, SalesCount: 567},
			{ID: "m4", Name: "Miso Soul Soup", Description: "Traditional miso with organic tofu", Price: 8, Category: "Sides", IsAvailable: true, SalesCount: 890},
		},
		HistoricalAvgMinutes: 20,
	},
}

// Seed は店コレクションが空なら初期データを書き込む
func Seed(ctx context.Context, restaurants repository.RestaurantRepository) error {
	existing, err := restaurants.ReadAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return restaurants.WriteAll(ctx, seedRestaurants)
}

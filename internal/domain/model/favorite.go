package model

// お気に入りは「店IDの集合」。行単位で持つがread/writeは常に全件
type Favorite struct {
	RestaurantID string `gorm:"primaryKey;type:varchar(64)" json:"restaurant_id"`
}

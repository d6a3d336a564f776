package model

type Addon struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Addons      []Addon `json:"addons,omitempty"`

	// 客側が絞り込みに使って良いのはこのフラグだけ
	IsAvailable bool  `json:"is_available"`
	SalesCount  int64 `json:"sales_count,omitempty"`
}

type Restaurant struct {
	ID           string  `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Rating       float64 `json:"rating"`
	DeliveryTime string  `gorm:"type:varchar(32)" json:"delivery_time"`

	Tags   []string `gorm:"serializer:json" json:"tags"`
	IsOpen bool     `gorm:"not null" json:"is_open"`

	DeliveryFee float64 `gorm:"not null" json:"delivery_fee"`
	MinOrder    float64 `gorm:"not null" json:"min_order"`

	PromoText    string   `gorm:"type:varchar(255)" json:"promo_text,omitempty"`
	PromoBanners []string `gorm:"serializer:json" json:"promo_banners,omitempty"`

	// メニューは表示順を保持した配列
	Menu []MenuItem `gorm:"serializer:json" json:"menu"`

	// 過去のこのルートの平均配達時間（ETA予測の入力）
	HistoricalAvgMinutes int `gorm:"not null;default:25" json:"historical_avg_minutes"`
}

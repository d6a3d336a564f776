package model

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusAccepted       OrderStatus = "ACCEPTED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// 遷移テーブル（現在status → 許可される次status）
// CANCELLED は PENDING からのみ。DELIVERED / CANCELLED は終端。
// OUT_FOR_DELIVERY へ入れるのはCourierAssignedの注文だけ（usecase側で検査）。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:       {OrderStatusPreparing, OrderStatusOutForDelivery},
	OrderStatusPreparing:      {OrderStatusReady},
	OrderStatusReady:          {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo は遷移テーブルに辺があるときだけtrue
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsActive は追跡対象になれるstatusかどうか（終端以外）
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodWallet   PaymentMethod = "WALLET"
	PaymentMethodApplePay PaymentMethod = "APPLE_PAY"
	PaymentMethodCash     PaymentMethod = "CASH"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCard, PaymentMethodWallet, PaymentMethodApplePay, PaymentMethodCash:
		return true
	}
	return false
}

// 注文の明細（注文時点の名前・価格を必ず保存）
type OrderItem struct {
	MenuItemID     string  `json:"menu_item_id"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unit_price"`
	Quantity       int64   `json:"quantity"`
	SelectedAddons []Addon `json:"selected_addons,omitempty"`
}

type Order struct {
	ID         string `gorm:"primaryKey;type:varchar(32)" json:"id"`
	CustomerID string `gorm:"type:varchar(64);not null;index" json:"customer_id"`

	RestaurantID string `gorm:"type:varchar(64);not null;index" json:"restaurant_id"`

	// 配達員が仕事を受けたらセット（READY → ACCEPTED）
	CourierID       string `gorm:"type:varchar(64)" json:"courier_id,omitempty"`
	CourierAssigned bool   `gorm:"not null;default:false" json:"courier_assigned"`

	Items []OrderItem `gorm:"serializer:json" json:"items"`

	// total = Σ(単価×数量) + 配達料。作成時に一度だけ計算する
	Total float64 `gorm:"not null" json:"total"`

	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`

	DeliveryAddress      string        `gorm:"type:varchar(255);not null" json:"delivery_address"`
	DeliveryInstructions string        `gorm:"type:varchar(255)" json:"delivery_instructions,omitempty"`
	PaymentMethod        PaymentMethod `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	LoyaltyPointsEarned  int64         `json:"loyalty_points_earned,omitempty"`
	CancellationReason   string        `gorm:"type:varchar(255)" json:"cancellation_reason,omitempty"`
}

package sync

import (
	"sync"
	"time"

	"app/internal/domain/model"
)

const notificationTTL = 4 * time.Second

type Notification struct {
	OrderID string            `json:"order_id"`
	Status  model.OrderStatus `json:"status"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Icon    string            `json:"icon"`
}

// status → 通知ペイロードの固定テーブル。
// PENDINGは対象外（新規作成は通知しない）
var statusNotifications = map[model.OrderStatus]Notification{
	model.OrderStatusAccepted:       {Status: model.OrderStatusAccepted, Title: "Order Accepted", Body: "The restaurant has accepted your order.", Icon: "fa-circle-check"},
	model.OrderStatusPreparing:      {Status: model.OrderStatusPreparing, Title: "Kitchen Active", Body: "Your food is being prepared.", Icon: "fa-fire-burner"},
	model.OrderStatusReady:          {Status: model.OrderStatusReady, Title: "Order Ready", Body: "Your order is packed and ready.", Icon: "fa-bag-shopping"},
	model.OrderStatusOutForDelivery: {Status: model.OrderStatusOutForDelivery, Title: "Out for Delivery", Body: "Your courier is on the way.", Icon: "fa-motorcycle"},
	model.OrderStatusDelivered:      {Status: model.OrderStatusDelivered, Title: "Order Delivered", Body: "Enjoy your meal!", Icon: "fa-box-open"},
	model.OrderStatusCancelled:      {Status: model.OrderStatusCancelled, Title: "Order Cancelled", Body: "Your order has been cancelled.", Icon: "fa-circle-xmark"},
}

// Notifier はスナップショット間のstatus差分を一発ものの通知に変える。
// 表示は常に1件。4秒で自動的に消える
type Notifier struct {
	mu      sync.Mutex
	current *Notification
	gen     uint64
	timer   *time.Timer
	ttl     time.Duration
}

func NewNotifier() *Notifier {
	return &Notifier{ttl: notificationTTL}
}

// Diff は前後のスナップショットを突き合わせて遷移ごとに通知を出す。
// 両方に存在するIDだけが対象。同一tickに複数来たら後勝ち
func (n *Notifier) Diff(prev []model.Order, next []model.Order) {
	prevByID := make(map[string]model.OrderStatus, len(prev))
	for _, o := range prev {
		prevByID[o.ID] = o.Status
	}

	for _, o := range next {
		before, known := prevByID[o.ID]
		if !known || before == o.Status {
			continue
		}
		payload, ok := statusNotifications[o.Status]
		if !ok {
			continue
		}
		payload.OrderID = o.ID
		n.show(payload)
	}
}

func (n *Notifier) show(payload Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	// 古いタイマーが新しい通知を消さないよう世代番号で守る
	n.gen++
	gen := n.gen
	n.current = &payload

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() {
		n.dismiss(gen)
	})
}

func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen != gen {
		return
	}
	n.current = nil
}

// Current は表示中の通知を返す（無ければfalse）
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Stop は保留中のタイマーを止める（teardown用）
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

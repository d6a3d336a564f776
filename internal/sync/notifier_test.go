package sync

import (
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func order(id string, status model.OrderStatus) model.Order {
	return model.Order{ID: id, Status: status}
}

func TestNotifier_Diff_StatusChangeEmitsOne(t *testing.T) {
	n := NewNotifier()
	defer n.Stop()

	prev := []model.Order{order("O1", model.OrderStatusPending)}
	next := []model.Order{order("O1", model.OrderStatusAccepted)}

	n.Diff(prev, next)

	got, ok := n.Current()
	assert.True(t, ok)
	assert.Equal(t, "Order Accepted", got.Title)
	assert.Equal(t, "O1", got.OrderID)
	assert.Equal(t, model.OrderStatusAccepted, got.Status)
}

func TestNotifier_Diff_NewOrderEmitsNothing(t *testing.T) {
	n := NewNotifier()
	defer n.Stop()

	// 前回に無かった注文（新規作成）は通知しない
	n.Diff([]model.Order{}, []model.Order{order("O2", model.OrderStatusPending)})

	_, ok := n.Current()
	assert.False(t, ok)
}

func TestNotifier_Diff_UnchangedEmitsNothing(t *testing.T) {
	n := NewNotifier()
	defer n.Stop()

	prev := []model.Order{order("O1", model.OrderStatusPreparing)}
	next := []model.Order{order("O1", model.OrderStatusPreparing)}
	n.Diff(prev, next)

	_, ok := n.Current()
	assert.False(t, ok)
}

func TestNotifier_Diff_MultipleChangesLastWins(t *testing.T) {
	n := NewNotifier()
	defer n.Stop()

	prev := []model.Order{
		order("O1", model.OrderStatusPending),
		order("O2", model.OrderStatusReady),
	}
	next := []model.Order{
		order("O1", model.OrderStatusAccepted),
		order("O2", model.OrderStatusOutForDelivery),
	}

	n.Diff(prev, next)

	// 同一tickでは反復順の最後が勝つ
	got, ok := n.Current()
	assert.True(t, ok)
	assert.Equal(t, "Out for Delivery", got.Title)
	assert.Equal(t, "O2", got.OrderID)
}

func TestNotifier_AutoDismissAfterTTL(t *testing.T) {
	n := NewNotifier()
	n.ttl = 30 * time.Millisecond
	defer n.Stop()

	n.Diff(
		[]model.Order{order("O1", model.OrderStatusPending)},
		[]model.Order{order("O1", model.OrderStatusAccepted)},
	)

	_, ok := n.Current()
	assert.True(t, ok)

	time.Sleep(80 * time.Millisecond)

	_, ok = n.Current()
	assert.False(t, ok)
}

func TestNotifier_StaleTimerDoesNotDismissNewer(t *testing.T) {
	n := NewNotifier()
	n.ttl = 30 * time.Millisecond
	defer n.Stop()

	n.Diff(
		[]model.Order{order("O1", model.OrderStatusPending)},
		[]model.Order{order("O1", model.OrderStatusAccepted)},
	)

	// 古いタイマーが切れる前に新しい通知を重ねる
	time.Sleep(10 * time.Millisecond)
	n.ttl = 10 * time.Second
	n.Diff(
		[]model.Order{order("O1", model.OrderStatusAccepted)},
		[]model.Order{order("O1", model.OrderStatusPreparing)},
	)

	// 最初のTTLを過ぎても新しい通知は残っている
	time.Sleep(60 * time.Millisecond)

	got, ok := n.Current()
	assert.True(t, ok)
	assert.Equal(t, "Kitchen Active", got.Title)
}

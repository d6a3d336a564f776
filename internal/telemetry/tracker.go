package telemetry

import (
	"log/slog"
	"sync"

	"app/internal/domain/model"
)

// Tracker は「追跡対象の注文」のライフサイクルを所有する。
// スナップショットが更新されるたびに観測し、simulator/pipelineの
// 起動・停止・リセットを一手に引き受ける
type Tracker struct {
	sim      *Simulator
	pipeline *Pipeline
	log      *slog.Logger

	mu        sync.Mutex
	trackedID string
}

func NewTracker(sim *Simulator, pipeline *Pipeline, log *slog.Logger) *Tracker {
	return &Tracker{
		sim:      sim,
		pipeline: pipeline,
		log:      log,
	}
}

func (t *Tracker) TrackedOrderID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trackedID
}

// Observe は最新スナップショットを受け取り、追跡対象を選び直す。
// 追跡対象 = activeバンドにある最初の注文（安定した並び順で）
func (t *Tracker) Observe(orders []model.Order, restaurants []model.Restaurant) {
	var tracked *model.Order
	for i := range orders {
		if orders[i].Status.IsActive() {
			tracked = &orders[i]
			break
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if tracked == nil {
		if t.trackedID != "" {
			t.log.Info("tracked order gone, stopping telemetry", "order_id", t.trackedID)
		}
		t.trackedID = ""
		t.sim.Stop()
		t.pipeline.Stop()
		return
	}

	if tracked.ID != t.trackedID {
		// 新しい配達になったら原点からやり直す
		t.trackedID = tracked.ID
		t.sim.Track(tracked.ID)
		for _, r := range restaurants {
			if r.ID == tracked.RestaurantID {
				t.pipeline.SetHistoricalAvg(r.HistoricalAvgMinutes)
				break
			}
		}
	}

	// 動くのはOUT_FOR_DELIVERYの間だけ
	if tracked.Status == model.OrderStatusOutForDelivery {
		t.sim.Start()
		t.pipeline.Start()
	} else {
		t.sim.Stop()
		t.pipeline.Stop()
	}
}

// Close はteardown時に全タイマーを確実に止める
func (t *Tracker) Close() {
	t.sim.Stop()
	t.pipeline.Stop()
}

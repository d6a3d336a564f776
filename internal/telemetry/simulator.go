package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"app/internal/domain/model"
)

const (
	simInterval = 1800 * time.Millisecond

	// 1tickで残距離の3%だけ進む
	stepFraction = 0.03

	// waypointを消化する距離
	waypointReach = 1.0
)

var (
	simOrigin      = model.Position{X: 2, Y: 2}
	simDestination = model.Position{X: 85, Y: 80}

	// 道なりの動きを模すための固定経路。最後はdestination
	simWaypoints = []model.Position{
		{X: 14, Y: 12},
		{X: 28, Y: 20},
		{X: 40, Y: 34},
		{X: 51, Y: 48},
		{X: 64, Y: 58},
		{X: 76, Y: 70},
		{X: 85, Y: 80},
	}
)

// Simulator は追跡中の注文1件の配達員位置を動かす。
// OUT_FOR_DELIVERYの間だけ動き、条件が崩れた瞬間に止まる
type Simulator struct {
	log      *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	orderID string
	pos     model.Position
	dest    model.Position
	path    []model.Position

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewSimulator(log *slog.Logger) *Simulator {
	s := &Simulator{
		log:      log,
		interval: simInterval,
		dest:     simDestination,
	}
	s.resetLocked()
	return s
}

func (s *Simulator) resetLocked() {
	s.pos = simOrigin
	s.path = make([]model.Position, len(simWaypoints))
	copy(s.path, simWaypoints)
}

// Track は追跡対象を切り替える。別の注文になったら原点に戻す
func (s *Simulator) Track(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orderID == orderID {
		return
	}
	s.orderID = orderID
	s.resetLocked()
}

func (s *Simulator) TrackedOrder() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID
}

func (s *Simulator) Position() model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *Simulator) Destination() model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dest
}

// Start はタイマーを起動する。既に動いていれば何もしない
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx, s.done)
	s.log.Info("telemetry simulator started", "order_id", s.orderID)
}

// Stop はタイマーを確実に止めてgoroutineの終了を待つ。何度呼んでも安全
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
	s.log.Info("telemetry simulator stopped")
}

func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.advance()
		}
	}
}

// advance は現在のwaypointへ残距離の一定割合だけ進む。
// waypointに十分近づいたら次へ。目的地への距離は単調に縮む
func (s *Simulator) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.path) > 1 && s.pos.DistanceTo(s.path[0]) < waypointReach {
		s.path = s.path[1:]
	}

	target := s.dest
	if len(s.path) > 0 {
		target = s.path[0]
	}

	s.pos.X += (target.X - s.pos.X) * stepFraction
	s.pos.Y += (target.Y - s.pos.Y) * stepFraction

	if len(s.path) > 1 && s.pos.DistanceTo(s.path[0]) < waypointReach {
		s.path = s.path[1:]
	}
}

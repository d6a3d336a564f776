package sync

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

const DefaultInterval = 3 * time.Second

// Snapshot はある同期tick時点のコレクション全量コピー
type Snapshot struct {
	Restaurants []model.Restaurant `json:"restaurants"`
	Orders      []model.Order      `json:"orders"`
	Favorites   []string           `json:"favorites"`
}

// Syncer はRecord Storeをポーリングして各roleのviewを最新に保つ。
// 差分プロトコルは無い。毎回スナップショット全置換
type Syncer struct {
	orders      repo.OrderRepository
	restaurants repo.RestaurantRepository
	favorites   repo.FavoriteRepository
	notifier    *Notifier
	log         *slog.Logger
	interval    time.Duration

	mu     sync.RWMutex
	snap   Snapshot
	loaded bool

	// スナップショット確定後に呼ぶ購読者（telemetry trackerなど）
	onRefresh func(Snapshot)

	// 進行中のサイクル数。tickとMutateが重なっても全部終わるまで>0
	inFlight atomic.Int64
}

func NewSyncer(
	orders repo.OrderRepository,
	restaurants repo.RestaurantRepository,
	favorites repo.FavoriteRepository,
	notifier *Notifier,
	log *slog.Logger,
) *Syncer {
	return &Syncer{
		orders:      orders,
		restaurants: restaurants,
		favorites:   favorites,
		notifier:    notifier,
		log:         log,
		interval:    DefaultInterval,
	}
}

// Refresh は3コレクションを全件読み直してスナップショットを置き換える。
// 読み込みが1つでも失敗したら前のスナップショットを維持する（リトライしない）
func (s *Syncer) Refresh(ctx context.Context) error {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	return s.refresh(ctx)
}

func (s *Syncer) refresh(ctx context.Context) error {
	// 3つ全部読み終わってから置き換える
	restaurants, err := s.restaurants.ReadAll(ctx)
	if err != nil {
		return err
	}
	orders, err := s.orders.ReadAll(ctx)
	if err != nil {
		return err
	}
	favorites, err := s.favorites.ReadAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	prevOrders := s.snap.Orders
	wasLoaded := s.loaded
	s.snap = Snapshot{
		Restaurants: restaurants,
		Orders:      orders,
		Favorites:   favorites,
	}
	s.loaded = true
	s.mu.Unlock()

	// 初回ロードでは通知しない（既知の注文の遷移だけが対象）
	if wasLoaded && s.notifier != nil {
		s.notifier.Diff(prevOrders, orders)
	}

	if s.onRefresh != nil {
		s.onRefresh(Snapshot{
			Restaurants: restaurants,
			Orders:      orders,
			Favorites:   favorites,
		})
	}
	return nil
}

// SetOnRefresh はRun開始前に一度だけ呼ぶこと
func (s *Syncer) SetOnRefresh(fn func(Snapshot)) {
	s.onRefresh = fn
}

// Mutate はローカル起点の書き込みを実行し、直後に即時再読込する。
// 書き込み〜再読込の間ずっとsyncingフラグが立つ
func (s *Syncer) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	if err := fn(ctx); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Run は固定間隔でRefreshを回す。ctxのキャンセルで必ず止まる
func (s *Syncer) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("syncer stopping")
			return
		case <-t.C:
			if err := s.Refresh(ctx); err != nil {
				// このサイクルはスキップして次のtickに任せる
				s.log.Warn("sync cycle skipped", "err", err)
			}
		}
	}
}

func (s *Syncer) Syncing() bool {
	return s.inFlight.Load() > 0
}

// Snapshot は consumer 用のコピーを返す
func (s *Syncer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Restaurants: make([]model.Restaurant, len(s.snap.Restaurants)),
		Orders:      make([]model.Order, len(s.snap.Orders)),
		Favorites:   make([]string, len(s.snap.Favorites)),
	}
	copy(snap.Restaurants, s.snap.Restaurants)
	copy(snap.Orders, s.snap.Orders)
	copy(snap.Favorites, s.snap.Favorites)
	return snap
}

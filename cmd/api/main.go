package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/prediction"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/server"
	appsync "app/internal/sync"
	"app/internal/telemetry"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .envは無くても良い（本番は環境変数で渡す）
	_ = godotenv.Load("../.env")

	log := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.Order{},
		&model.Restaurant{},
		&model.Favorite{},
	); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	//SIGINT/SIGTERMで全タイマーを畳む
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	restaurantRepo := infraRepo.NewRestaurantGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)

	//初期データ
	if err := db.Seed(ctx, restaurantRepo); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}

	//Usecase生成
	idGen := &uuidGenerator{}
	clock := &realClock{}
	orderUC := usecase.NewOrderUsecase(orderRepo, restaurantRepo, idGen, clock)
	restaurantUC := usecase.NewRestaurantUsecase(restaurantRepo)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo)

	//同期ループ＋通知
	notifier := appsync.NewNotifier()
	syncer := appsync.NewSyncer(orderRepo, restaurantRepo, favoriteRepo, notifier, log)

	//テレメトリ＋ETAパイプライン
	sim := telemetry.NewSimulator(log)
	predictor := prediction.NewClient(cfg.PredictionURL)
	pipeline := telemetry.NewPipeline(predictor, sim, log)
	tracker := telemetry.NewTracker(sim, pipeline, log)

	syncer.SetOnRefresh(func(snap appsync.Snapshot) {
		tracker.Observe(snap.Orders, snap.Restaurants)
	})

	//viewを出す前に一度フルリードしておく
	if err := syncer.Refresh(ctx); err != nil {
		log.Error("initial sync failed", "err", err)
		os.Exit(1)
	}
	go syncer.Run(ctx)

	//Handler生成
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(cfg),
		Order:    handler.NewOrderHandler(orderUC, favoriteUC, syncer),
		Merchant: handler.NewMerchantHandler(orderUC, restaurantUC, syncer),
		Courier:  handler.NewCourierHandler(orderUC, syncer, cfg),
		Admin:    handler.NewAdminHandler(syncer),
		Tracking: handler.NewTrackingHandler(tracker, sim, pipeline, syncer, notifier),
	}

	srv := server.New(cfg, h)

	go func() {
		<-ctx.Done()

		//タイマーを確実に止めてからサーバーを落とす
		tracker.Close()
		notifier.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "err", err)
		}
	}()

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	log.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"app/internal/domain/model"
)

const (
	etaInterval = 15 * time.Second

	// デモ用の固定トラフィック記述子
	defaultTraffic = "moderate"
)

// 予測collaboratorが落ちているときに返す固定値
var FallbackEstimate = model.ETAEstimate{
	EstimatedMinutes: 15,
	Reasoning:        "Standard calculation applied.",
	ConfidenceScore:  40,
}

type PredictionInput struct {
	DriverPos            model.Position `json:"driver_position"`
	DestPos              model.Position `json:"destination_position"`
	Traffic              string         `json:"traffic"`
	HistoricalAvgMinutes int            `json:"historical_average_minutes"`
}

type Predictor interface {
	PredictETA(ctx context.Context, in PredictionInput) (model.ETAEstimate, error)
}

// Pipeline は配達中の注文のETAを定期的に予測する。
// collaboratorの失敗は必ずfallbackで吸収し、注文のワークフローを止めない
type Pipeline struct {
	predictor Predictor
	sim       *Simulator
	log       *slog.Logger
	interval  time.Duration

	mu       sync.Mutex
	histAvg  int
	traffic  string
	estimate model.ETAEstimate

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPipeline(predictor Predictor, sim *Simulator, log *slog.Logger) *Pipeline {
	return &Pipeline{
		predictor: predictor,
		sim:       sim,
		log:       log,
		interval:  etaInterval,
		traffic:   defaultTraffic,
		histAvg:   25,
	}
}

// SetHistoricalAvg は追跡対象の店の過去平均配達時間をセットする
func (p *Pipeline) SetHistoricalAvg(minutes int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if minutes > 0 {
		p.histAvg = minutes
	}
}

func (p *Pipeline) Estimate() model.ETAEstimate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estimate
}

func (p *Pipeline) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.mu.Unlock()

	go p.run(ctx, p.done)
	p.log.Info("eta pipeline started")
}

func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
	p.log.Info("eta pipeline stopped")
}

func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Pipeline) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	// 起動直後に一度予測してからタイマーに乗る
	p.refresh(ctx)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.refresh(ctx)
		}
	}
}

// refresh は1回分の予測サイクル。エラーはUIに出さずfallbackに落とす
func (p *Pipeline) refresh(ctx context.Context) {
	p.mu.Lock()
	in := PredictionInput{
		DriverPos:            p.sim.Position(),
		DestPos:              p.sim.Destination(),
		Traffic:              p.traffic,
		HistoricalAvgMinutes: p.histAvg,
	}
	p.mu.Unlock()

	est, err := p.predictor.PredictETA(ctx, in)
	if err != nil {
		p.log.Warn("eta prediction unavailable, using fallback", "err", err)
		est = FallbackEstimate
	}

	p.mu.Lock()
	p.estimate = est
	p.mu.Unlock()
}

package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

type stubPredictor struct {
	estimate model.ETAEstimate
	err      error
	lastIn   PredictionInput
	calls    int
}

func (p *stubPredictor) PredictETA(ctx context.Context, in PredictionInput) (model.ETAEstimate, error) {
	p.calls++
	p.lastIn = in
	if p.err != nil {
		return model.ETAEstimate{}, p.err
	}
	return p.estimate, nil
}

func TestPipeline_RefreshStoresPrediction(t *testing.T) {
	sim := NewSimulator(slog.Default())
	predictor := &stubPredictor{
		estimate: model.ETAEstimate{EstimatedMinutes: 12, Reasoning: "Light traffic on the route.", ConfidenceScore: 85},
	}
	p := NewPipeline(predictor, sim, slog.Default())
	p.SetHistoricalAvg(20)

	p.refresh(context.Background())

	assert.Equal(t, 12, p.Estimate().EstimatedMinutes)
	assert.Equal(t, 85, p.Estimate().ConfidenceScore)

	// 入力にはテレメトリと過去平均が入る
	assert.Equal(t, sim.Position(), predictor.lastIn.DriverPos)
	assert.Equal(t, sim.Destination(), predictor.lastIn.DestPos)
	assert.Equal(t, 20, predictor.lastIn.HistoricalAvgMinutes)
	assert.NotEmpty(t, predictor.lastIn.Traffic)
}

func TestPipeline_PredictorFailureFallsBack(t *testing.T) {
	sim := NewSimulator(slog.Default())
	predictor := &stubPredictor{err: errors.New("network down")}
	p := NewPipeline(predictor, sim, slog.Default())

	// collaboratorが落ちてもエラーは外に出ず固定値に落ちる
	p.refresh(context.Background())

	got := p.Estimate()
	assert.Equal(t, 15, got.EstimatedMinutes)
	assert.Equal(t, 40, got.ConfidenceScore)
	assert.NotEmpty(t, got.Reasoning)
}

func TestPipeline_FailureDoesNotStopCycles(t *testing.T) {
	sim := NewSimulator(slog.Default())
	predictor := &stubPredictor{err: errors.New("boom")}
	p := NewPipeline(predictor, sim, slog.Default())

	p.refresh(context.Background())
	p.refresh(context.Background())
	p.refresh(context.Background())

	assert.Equal(t, 3, predictor.calls)
	assert.Equal(t, FallbackEstimate, p.Estimate())
}

func TestPipeline_StartStopIdempotent(t *testing.T) {
	sim := NewSimulator(slog.Default())
	predictor := &stubPredictor{
		estimate: model.ETAEstimate{EstimatedMinutes: 10, Reasoning: "ok", ConfidenceScore: 70},
	}
	p := NewPipeline(predictor, sim, slog.Default())

	p.Start()
	p.Start()
	assert.True(t, p.Running())

	p.Stop()
	p.Stop()
	assert.False(t, p.Running())

	// 起動直後に一度予測している
	assert.GreaterOrEqual(t, predictor.calls, 1)
}

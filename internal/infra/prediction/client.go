package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	"app/internal/telemetry"
)

var ErrUnavailable = errors.New("prediction unavailable")

type predictionResponse struct {
	EstimatedMinutes *int    `json:"estimated_minutes"`
	Reasoning        string  `json:"reasoning"`
	ConfidenceScore  *int    `json:"confidence_score"`
}

// Client は外部の予測collaboratorを叩くHTTPクライアント。
// 失敗の扱い（fallback）はpipeline側の責務で、ここはエラーを返すだけ
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

func (c *Client) PredictETA(ctx context.Context, in telemetry.PredictionInput) (model.ETAEstimate, error) {
	if c.endpoint == "" {
		return model.ETAEstimate{}, fmt.Errorf("%w: endpoint not configured", ErrUnavailable)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return model.ETAEstimate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.ETAEstimate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ETAEstimate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ETAEstimate{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.ETAEstimate{}, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	// 欄が欠けている・範囲外のレスポンスもmalformed扱い
	if out.EstimatedMinutes == nil || out.ConfidenceScore == nil || out.Reasoning == "" {
		return model.ETAEstimate{}, fmt.Errorf("%w: missing fields", ErrUnavailable)
	}
	if *out.EstimatedMinutes <= 0 || *out.ConfidenceScore < 0 || *out.ConfidenceScore > 100 {
		return model.ETAEstimate{}, fmt.Errorf("%w: out of range", ErrUnavailable)
	}

	return model.ETAEstimate{
		EstimatedMinutes: *out.EstimatedMinutes,
		Reasoning:        out.Reasoning,
		ConfidenceScore:  *out.ConfidenceScore,
	}, nil
}

package model

import "math"

// 配達員の座標（永続化しない。配達中だけ存在する）
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) DistanceTo(other Position) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ETA予測の結果。予測サイクルごとに置き換える
type ETAEstimate struct {
	EstimatedMinutes int    `json:"estimated_minutes"`
	Reasoning        string `json:"reasoning"`
	ConfidenceScore  int    `json:"confidence_score"`
}

package model

import "time"

// DifficultyScore is a difficulty judge's single score for a competitor,
// fixed-point with three decimal places in the range 0.000-50.000.
type DifficultyScore struct {
	ID           string    `json:"id"`
	CompetitorID string    `json:"competitor_id"`
	JudgeID      string    `json:"judge_id"`
	Difficulty   float64   `json:"difficulty"`
	CreatedAt    time.Time `json:"timestamp"`
}

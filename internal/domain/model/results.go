package model

import "time"

// RoundScore is one scored round inside a judge group of the results view.
type RoundScore struct {
	RoundNumber int       `json:"round_number"`
	Score       float64   `json:"score"`
	Timestamp   time.Time `json:"timestamp"`
}

// JudgeRounds groups a competitor's ratings under the judge that awarded
// them, rounds in ascending order.
type JudgeRounds struct {
	JudgeID     string       `json:"judge_id"`
	JudgeNumber string       `json:"judge_number"`
	JudgeName   string       `json:"judge_name"`
	Rounds      []RoundScore `json:"rounds"`
}

// ResultStatistics summarises all of a competitor's ratings flattened across
// judges. CompletedRounds counts distinct round numbers regardless of which
// judge submitted them.
type ResultStatistics struct {
	BestScore       float64 `json:"best_score"`
	AverageScore    float64 `json:"average_score"`
	TotalRounds     int     `json:"total_rounds"`
	CompletedRounds int     `json:"completed_rounds"`
}

// CompetitorResult is one entry of the public results listing.
type CompetitorResult struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Surname          string           `json:"surname"`
	CompetitorNumber string           `json:"competitor_number"`
	Group            string           `json:"group"`
	Club             string           `json:"club"`
	Active           bool             `json:"active"`
	Judges           []JudgeRounds    `json:"judges"`
	Statistics       ResultStatistics `json:"statistics"`
}

// JudgeBestScore is one row of the per-judge best-score view for a single
// competitor.
type JudgeBestScore struct {
	JudgeNumber string  `json:"judge_number"`
	BestScore   float64 `json:"best_score"`
}

// ResetOutcome reports what a competition reset removed.
type ResetOutcome struct {
	DeletedRatings          int `json:"deleted_ratings"`
	DeletedDifficultyScores int `json:"deleted_difficulty_scores"`
	DeletedTotal            int `json:"deleted_total"`
}

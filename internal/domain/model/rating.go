package model

import "time"

// Rating is one execution judge's score for one round of one competitor.
// Resubmitting the same (competitor, judge, round) overwrites the score
// fields in place; CreatedAt keeps the time of the first submission.
type Rating struct {
	ID           string    `json:"id"`
	CompetitorID string    `json:"competitor_id"`
	JudgeID      string    `json:"judge_id"`
	RoundNumber  int       `json:"round_number"` // conventionally 1-10
	Score        float64   `json:"score"`
	LandingScore float64   `json:"landing_score"`
	Deduction    float64   `json:"deduction"` // tenths-granularity penalty
	CreatedAt    time.Time `json:"timestamp"`
}

// RatingWithJudge joins the submitting judge's identity onto a rating for
// results assembly.
type RatingWithJudge struct {
	Rating
	JudgeNumber  string `json:"judge_number"`
	JudgeName    string `json:"judge_name"`
	JudgeSurname string `json:"judge_surname"`
}

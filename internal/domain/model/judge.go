package model

type JudgeType string

const (
	JudgeTypeExecution  JudgeType = "execution"  // scores rounds
	JudgeTypeDifficulty JudgeType = "difficulty" // scores difficulty only
)

// Judge is a scoring official. UserID stays nil for judges created
// administratively until a login is provisioned for them.
type Judge struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id,omitempty"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	JudgeNumber string    `json:"judge_number"`
	IsMainJudge bool      `json:"is_main_judge"`
	JudgeType   JudgeType `json:"judge_type"`
}

// Principal is the authenticated caller. Judge is nil when the user has no
// linked judge profile; such callers hold no judge capabilities.
type Principal struct {
	UserID string
	Judge  *Judge
}

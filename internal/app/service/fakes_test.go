package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"time"

	"judgeback/internal/common"
	"judgeback/internal/domain/model"
)

// Services only ever begin, commit and roll back transactions themselves;
// all statements go through the repositories. A stub driver therefore lets
// the tests run the real transaction plumbing against in-memory fakes.

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not execute statements")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("stubdb", stubDriver{})
}

func newStubDB(t interface{ Fatalf(string, ...interface{}) }) *sql.DB {
	db, err := sql.Open("stubdb", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	return db
}

// --- fake repositories ---

type fakeUserRepo struct {
	users []*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		}
	}
	copied := *user
	r.users = append(r.users, &copied)
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if email != "" && u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, tx *sql.Tx, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeJudgeRepo struct {
	judges        []*model.Judge
	executionSeq  int64
	difficultySeq int64
}

func (r *fakeJudgeRepo) Create(ctx context.Context, tx *sql.Tx, judge *model.Judge) error {
	copied := *judge
	r.judges = append(r.judges, &copied)
	return nil
}

func (r *fakeJudgeRepo) FindByID(ctx context.Context, id string) (*model.Judge, error) {
	for _, j := range r.judges {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeJudgeRepo) FindByUserID(ctx context.Context, userID string) (*model.Judge, error) {
	for _, j := range r.judges {
		if j.UserID != nil && *j.UserID == userID {
			return j, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeJudgeRepo) List(ctx context.Context) ([]model.Judge, error) {
	out := make([]model.Judge, 0, len(r.judges))
	for _, j := range r.judges {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].JudgeNumber < out[k].JudgeNumber })
	return out, nil
}

func (r *fakeJudgeRepo) LinkUser(ctx context.Context, tx *sql.Tx, judgeID, userID string) error {
	for _, j := range r.judges {
		if j.ID == judgeID {
			id := userID
			j.UserID = &id
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeJudgeRepo) NextJudgeNumber(ctx context.Context, tx *sql.Tx, judgeType model.JudgeType) (int64, error) {
	if judgeType == model.JudgeTypeDifficulty {
		r.difficultySeq++
		return r.difficultySeq, nil
	}
	r.executionSeq++
	return r.executionSeq, nil
}

type fakeCompetitorRepo struct {
	competitors []*model.Competitor
}

func (r *fakeCompetitorRepo) Create(ctx context.Context, competitor *model.Competitor) error {
	copied := *competitor
	r.competitors = append(r.competitors, &copied)
	return nil
}

func (r *fakeCompetitorRepo) Update(ctx context.Context, competitor *model.Competitor) error {
	for i, c := range r.competitors {
		if c.ID == competitor.ID {
			copied := *competitor
			copied.Active = c.Active
			r.competitors[i] = &copied
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *fakeCompetitorRepo) FindByID(ctx context.Context, id string) (*model.Competitor, error) {
	for _, c := range r.competitors {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeCompetitorRepo) List(ctx context.Context) ([]model.Competitor, error) {
	out := make([]model.Competitor, 0, len(r.competitors))
	for _, c := range r.competitors {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CompetitorNumber < out[k].CompetitorNumber })
	return out, nil
}

func (r *fakeCompetitorRepo) ListActive(ctx context.Context) ([]model.Competitor, error) {
	var out []model.Competitor
	for _, c := range r.competitors {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCompetitorRepo) DeactivateAll(ctx context.Context, tx *sql.Tx) error {
	for _, c := range r.competitors {
		c.Active = false
	}
	return nil
}

func (r *fakeCompetitorRepo) Activate(ctx context.Context, tx *sql.Tx, id string) (*model.Competitor, error) {
	for _, c := range r.competitors {
		if c.ID == id {
			c.Active = true
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeCompetitorRepo) IsActiveForShare(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	for _, c := range r.competitors {
		if c.ID == id {
			return c.Active, nil
		}
	}
	return false, common.ErrNotFound
}

type ratingKey struct {
	competitorID string
	judgeID      string
	roundNumber  int
}

// fakeRatingRepo mimics the ON CONFLICT upsert: the keyed row keeps its
// identity and created_at across overwrites. Tests advance `now` manually to
// observe timestamp behavior.
type fakeRatingRepo struct {
	rows   map[ratingKey]*model.Rating
	judges *fakeJudgeRepo
	now    time.Time
}

func newFakeRatingRepo(judges *fakeJudgeRepo) *fakeRatingRepo {
	return &fakeRatingRepo{
		rows:   make(map[ratingKey]*model.Rating),
		judges: judges,
		now:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRatingRepo) Upsert(ctx context.Context, tx *sql.Tx, rating *model.Rating) (*model.Rating, error) {
	key := ratingKey{rating.CompetitorID, rating.JudgeID, rating.RoundNumber}
	if existing, ok := r.rows[key]; ok {
		existing.Score = rating.Score
		existing.LandingScore = rating.LandingScore
		existing.Deduction = rating.Deduction
		copied := *existing
		return &copied, nil
	}
	copied := *rating
	copied.CreatedAt = r.now
	r.rows[key] = &copied
	out := copied
	return &out, nil
}

func (r *fakeRatingRepo) ListByJudge(ctx context.Context, judgeID string) ([]model.Rating, error) {
	var out []model.Rating
	for _, row := range r.rows {
		if row.JudgeID == judgeID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *fakeRatingRepo) ListAllWithJudges(ctx context.Context) ([]model.RatingWithJudge, error) {
	var out []model.RatingWithJudge
	for _, row := range r.rows {
		judge, err := r.judges.FindByID(ctx, row.JudgeID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.RatingWithJudge{
			Rating:       *row,
			JudgeNumber:  judge.JudgeNumber,
			JudgeName:    judge.Name,
			JudgeSurname: judge.Surname,
		})
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].JudgeNumber != out[k].JudgeNumber {
			return out[i].JudgeNumber < out[k].JudgeNumber
		}
		return out[i].RoundNumber < out[k].RoundNumber
	})
	return out, nil
}

func (r *fakeRatingRepo) BestPerJudge(ctx context.Context, competitorID string) ([]model.JudgeBestScore, error) {
	best := make(map[string]float64)
	for _, row := range r.rows {
		if row.CompetitorID != competitorID {
			continue
		}
		judge, err := r.judges.FindByID(ctx, row.JudgeID)
		if err != nil {
			return nil, err
		}
		if row.Score > best[judge.JudgeNumber] {
			best[judge.JudgeNumber] = row.Score
		}
	}
	out := make([]model.JudgeBestScore, 0, len(best))
	for number, score := range best {
		out = append(out, model.JudgeBestScore{JudgeNumber: number, BestScore: score})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].JudgeNumber < out[k].JudgeNumber })
	return out, nil
}

func (r *fakeRatingRepo) DeleteAll(ctx context.Context, tx *sql.Tx) (int, error) {
	n := len(r.rows)
	r.rows = make(map[ratingKey]*model.Rating)
	return n, nil
}

type difficultyKey struct {
	competitorID string
	judgeID      string
}

type fakeDifficultyRepo struct {
	rows map[difficultyKey]*model.DifficultyScore
	now  time.Time
}

func newFakeDifficultyRepo() *fakeDifficultyRepo {
	return &fakeDifficultyRepo{
		rows: make(map[difficultyKey]*model.DifficultyScore),
		now:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *fakeDifficultyRepo) Upsert(ctx context.Context, tx *sql.Tx, score *model.DifficultyScore) (*model.DifficultyScore, error) {
	key := difficultyKey{score.CompetitorID, score.JudgeID}
	if existing, ok := r.rows[key]; ok {
		existing.Difficulty = score.Difficulty
		copied := *existing
		return &copied, nil
	}
	copied := *score
	copied.CreatedAt = r.now
	r.rows[key] = &copied
	out := copied
	return &out, nil
}

func (r *fakeDifficultyRepo) ListByJudge(ctx context.Context, judgeID string) ([]model.DifficultyScore, error) {
	var out []model.DifficultyScore
	for _, row := range r.rows {
		if row.JudgeID == judgeID {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r *fakeDifficultyRepo) DeleteAll(ctx context.Context, tx *sql.Tx) (int, error) {
	n := len(r.rows)
	r.rows = make(map[difficultyKey]*model.DifficultyScore)
	return n, nil
}

type fakeThrottle struct {
	failures map[string]int
	max      int
}

func newFakeThrottle(max int) *fakeThrottle {
	return &fakeThrottle{failures: make(map[string]int), max: max}
}

func (t *fakeThrottle) Blocked(ctx context.Context, handle string) (bool, error) {
	return t.failures[handle] >= t.max, nil
}

func (t *fakeThrottle) RecordFailure(ctx context.Context, handle string) error {
	t.failures[handle]++
	return nil
}

func (t *fakeThrottle) Clear(ctx context.Context, handle string) error {
	delete(t.failures, handle)
	return nil
}

package service

import (
	"context"
	"fmt"

	"judgeback/internal/domain/model"
	"judgeback/internal/domain/repository"
)

type ResultsService struct {
	competitorRepo repository.CompetitorRepository
	ratingRepo     repository.RatingRepository
}

func NewResultsService(competitorRepo repository.CompetitorRepository, ratingRepo repository.RatingRepository) *ResultsService {
	return &ResultsService{competitorRepo: competitorRepo, ratingRepo: ratingRepo}
}

// ComputeResults builds the public results listing: every competitor in
// competitor_number order, their ratings grouped per judge (judge_number
// ascending, rounds ascending within a judge) and summary statistics over
// the flattened ratings.
func (s *ResultsService) ComputeResults(ctx context.Context) ([]model.CompetitorResult, error) {
	competitors, err := s.competitorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	ratings, err := s.ratingRepo.ListAllWithJudges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	// The query orders by judge_number then round_number; splitting by
	// competitor preserves that order within each bucket.
	byCompetitor := make(map[string][]model.RatingWithJudge)
	for _, r := range ratings {
		byCompetitor[r.CompetitorID] = append(byCompetitor[r.CompetitorID], r)
	}

	results := make([]model.CompetitorResult, 0, len(competitors))
	for _, c := range competitors {
		results = append(results, model.CompetitorResult{
			ID:               c.ID,
			Name:             c.Name,
			Surname:          c.Surname,
			CompetitorNumber: c.CompetitorNumber,
			Group:            c.Group,
			Club:             c.Club,
			Active:           c.Active,
			Judges:           groupByJudge(byCompetitor[c.ID]),
			Statistics:       summarize(byCompetitor[c.ID]),
		})
	}
	return results, nil
}

// BestPerJudge returns, for one competitor, each judge's highest score
// across all rounds, ordered by judge_number.
func (s *ResultsService) BestPerJudge(ctx context.Context, competitorID string) ([]model.JudgeBestScore, error) {
	if _, err := s.competitorRepo.FindByID(ctx, competitorID); err != nil {
		return nil, err
	}
	return s.ratingRepo.BestPerJudge(ctx, competitorID)
}

func groupByJudge(ratings []model.RatingWithJudge) []model.JudgeRounds {
	groups := make([]model.JudgeRounds, 0)
	index := make(map[string]int)
	for _, r := range ratings {
		i, ok := index[r.JudgeID]
		if !ok {
			i = len(groups)
			index[r.JudgeID] = i
			groups = append(groups, model.JudgeRounds{
				JudgeID:     r.JudgeID,
				JudgeNumber: r.JudgeNumber,
				JudgeName:   r.JudgeName + " " + r.JudgeSurname,
			})
		}
		groups[i].Rounds = append(groups[i].Rounds, model.RoundScore{
			RoundNumber: r.RoundNumber,
			Score:       r.Score,
			Timestamp:   r.CreatedAt,
		})
	}
	return groups
}

// summarize flattens the ratings across judges: best and average are over
// every individual score, completed rounds counts distinct round numbers no
// matter which judge submitted them. Scores round to two decimal places.
func summarize(ratings []model.RatingWithJudge) model.ResultStatistics {
	if len(ratings) == 0 {
		return model.ResultStatistics{}
	}

	var best, sum float64
	rounds := make(map[int]struct{})
	for _, r := range ratings {
		if r.Score > best {
			best = r.Score
		}
		sum += r.Score
		rounds[r.RoundNumber] = struct{}{}
	}

	return model.ResultStatistics{
		BestScore:       roundTo(best, 2),
		AverageScore:    roundTo(sum/float64(len(ratings)), 2),
		TotalRounds:     len(ratings),
		CompletedRounds: len(rounds),
	}
}

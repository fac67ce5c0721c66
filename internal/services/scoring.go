package services

import (
	"math"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/models"
)

// Section weights for the composite score.
const (
	multipleChoiceWeight = 0.30
	shortAnswerWeight    = 0.40
	essayWeight          = 0.30
)

type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// MultipleChoiceScore computes the deduction-based choice-section score.
// Only answered questions count: each wrong answer among them deducts
// 100/total points, and unanswered questions deduct nothing. Leaving a
// question blank therefore never hurts the score; that asymmetry is the
// grading policy, not an accident.
func (s *ScoringService) MultipleChoiceScore(answers map[int]string, questions []models.MultipleChoiceQuestion) float64 {
	correctCount := 0
	totalAnswered := 0

	for _, q := range questions {
		chosen, ok := answers[q.ID]
		if !ok {
			continue
		}
		totalAnswered++
		if chosen == q.CorrectAnswer {
			correctCount++
		}
	}

	if totalAnswered == 0 {
		return 0
	}

	scorePerQuestion := 100.0 / float64(len(questions))
	deduction := float64(totalAnswered-correctCount) * scorePerQuestion
	return math.Max(0, 100-deduction)
}

// CompositeScore combines the three section scores with fixed weights.
// An empty short-answer list contributes a mean of zero.
func (s *ScoringService) CompositeScore(mcScore float64, saScores []float64, essayScore float64) float64 {
	var saMean float64
	if len(saScores) > 0 {
		var sum float64
		for _, score := range saScores {
			sum += score
		}
		saMean = sum / float64(len(saScores))
	}

	return mcScore*multipleChoiceWeight + saMean*shortAnswerWeight + essayScore*essayWeight
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/content"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/grader"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/models"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/ws"

	"github.com/google/uuid"
)

// Grader is the boundary to the external grading service. Satisfied by
// *grader.Client.
type Grader interface {
	Available() bool
	GradeShortAnswer(ctx context.Context, question, studentAnswer, referenceAnswer string) (*models.GradingResult, error)
	GradeEssay(ctx context.Context, title, question, studentEssay string, rubric models.Rubric) (*models.GradingResult, error)
	OverallFeedback(ctx context.Context, mcScore float64, saScores []float64, essayScore, total float64) (string, error)
}

var _ Grader = (*grader.Client)(nil)

type Phase string

const (
	PhaseDrafting  Phase = "drafting"
	PhaseSubmitted Phase = "submitted"
)

var (
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotGradable      = errors.New("answer is empty, already graded, or grading is in progress")
)

// Attempt is one quiz sitting: selected choices, the two open-ended
// response stores, and the holistic-feedback state. The epoch counter
// increments on reset so grading calls still in flight from an earlier
// sitting cannot write into the new one.
type Attempt struct {
	mu sync.Mutex

	id                 string
	phase              Phase
	epoch              uint64
	choices            map[int]string
	shortAnswers       *ResponseStore
	essays             *ResponseStore
	overallFeedback    string
	feedbackError      string
	feedbackInProgress bool
	credentialMissing  bool
}

// AttemptSnapshot is the immutable view of an attempt handed to the
// presentation layer.
type AttemptSnapshot struct {
	ID                 string                `json:"id"`
	Phase              Phase                 `json:"phase"`
	Choices            map[int]string        `json:"choices"`
	ShortAnswers       []models.AnswerRecord `json:"short_answers"`
	Essays             []models.AnswerRecord `json:"essays"`
	OverallFeedback    string                `json:"overall_feedback,omitempty"`
	FeedbackError      string                `json:"feedback_error,omitempty"`
	FeedbackInProgress bool                  `json:"feedback_in_progress"`
	CredentialMissing  bool                  `json:"credential_missing"`
}

// QuestionScore pairs a question id with its graded score.
type QuestionScore struct {
	QuestionID int     `json:"question_id"`
	Score      float64 `json:"score"`
}

// AttemptResults is the on-demand score projection for one attempt.
type AttemptResults struct {
	MultipleChoiceScore float64         `json:"multiple_choice_score"`
	ShortAnswerScores   []QuestionScore `json:"short_answer_scores"`
	EssayScores         []QuestionScore `json:"essay_scores"`
	CompositeScore      float64         `json:"composite_score"`
	OverallFeedback     string          `json:"overall_feedback,omitempty"`
	FeedbackError       string          `json:"feedback_error,omitempty"`
	FeedbackInProgress  bool            `json:"feedback_in_progress"`
	CredentialMissing   bool            `json:"credential_missing"`
}

// AttemptService orchestrates quiz attempts: it records learner input while
// drafting, fans grading calls out on submit, and aggregates scores.
type AttemptService struct {
	mu       sync.RWMutex
	attempts map[string]*Attempt

	course  *content.Course
	grader  Grader
	scoring *ScoringService
	hub     *ws.Hub
}

func NewAttemptService(course *content.Course, g Grader, scoring *ScoringService, hub *ws.Hub) *AttemptService {
	return &AttemptService{
		attempts: make(map[string]*Attempt),
		course:   course,
		grader:   g,
		scoring:  scoring,
		hub:      hub,
	}
}

// CreateAttempt starts a new drafting attempt.
func (s *AttemptService) CreateAttempt() AttemptSnapshot {
	a := &Attempt{
		id:           uuid.NewString(),
		phase:        PhaseDrafting,
		choices:      make(map[int]string),
		shortAnswers: NewResponseStore(),
		essays:       NewResponseStore(),
	}

	s.mu.Lock()
	s.attempts[a.id] = a
	s.mu.Unlock()

	return s.snapshot(a)
}

func (s *AttemptService) attempt(id string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	return a, nil
}

// Snapshot returns the current observable state of an attempt.
func (s *AttemptService) Snapshot(id string) (AttemptSnapshot, error) {
	a, err := s.attempt(id)
	if err != nil {
		return AttemptSnapshot{}, err
	}
	return s.snapshot(a), nil
}

// SelectChoice records the learner's option for one multiple-choice
// question. Input is accepted only while drafting.
func (s *AttemptService) SelectChoice(attemptID string, questionID int, option string) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}

	question, ok := s.multipleChoice(questionID)
	if !ok {
		return AttemptSnapshot{}, ErrQuestionNotFound
	}
	valid := false
	for _, o := range question.Options {
		if o.Label == option {
			valid = true
			break
		}
	}
	if !valid {
		return AttemptSnapshot{}, fmt.Errorf("question %d has no option %q", questionID, option)
	}

	a.mu.Lock()
	if a.phase != PhaseDrafting {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrAlreadySubmitted
	}
	a.choices[questionID] = option
	a.mu.Unlock()

	return s.publish(a), nil
}

// SetShortAnswer records the learner's short-answer text.
func (s *AttemptService) SetShortAnswer(attemptID string, questionID int, text string) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}
	if _, ok := s.course.ShortAnswer(questionID); !ok {
		return AttemptSnapshot{}, ErrQuestionNotFound
	}

	a.mu.Lock()
	if a.phase != PhaseDrafting {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrAlreadySubmitted
	}
	a.shortAnswers.SetAnswerText(questionID, text)
	a.mu.Unlock()

	return s.publish(a), nil
}

// SetEssay records the learner's essay text.
func (s *AttemptService) SetEssay(attemptID string, questionID int, text string) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}
	if _, ok := s.course.Essay(questionID); !ok {
		return AttemptSnapshot{}, ErrQuestionNotFound
	}

	a.mu.Lock()
	if a.phase != PhaseDrafting {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrAlreadySubmitted
	}
	a.essays.SetAnswerText(questionID, text)
	a.mu.Unlock()

	return s.publish(a), nil
}

// GradeShortAnswerItem grades one short answer on demand while still
// drafting. Items graded this way keep their result through submit and
// feed the submit-time scores of the holistic narrative.
func (s *AttemptService) GradeShortAnswerItem(attemptID string, questionID int) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}
	question, ok := s.course.ShortAnswer(questionID)
	if !ok {
		return AttemptSnapshot{}, ErrQuestionNotFound
	}

	a.mu.Lock()
	if a.phase != PhaseDrafting {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrAlreadySubmitted
	}
	epoch := a.epoch
	rec, found := a.shortAnswers.Get(questionID)
	if !found || !gradable(rec) || !a.shortAnswers.BeginGrading(questionID) {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrNotGradable
	}
	a.mu.Unlock()

	go s.gradeShortAnswer(a, epoch, question, rec.Answer)
	return s.publish(a), nil
}

// GradeEssayItem grades one essay on demand while still drafting.
func (s *AttemptService) GradeEssayItem(attemptID string, questionID int) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}
	question, ok := s.course.Essay(questionID)
	if !ok {
		return AttemptSnapshot{}, ErrQuestionNotFound
	}

	a.mu.Lock()
	if a.phase != PhaseDrafting {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrAlreadySubmitted
	}
	epoch := a.epoch
	rec, found := a.essays.Get(questionID)
	if !found || !gradable(rec) || !a.essays.BeginGrading(questionID) {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrNotGradable
	}
	a.mu.Unlock()

	go s.gradeEssay(a, epoch, question, rec.Answer)
	return s.publish(a), nil
}

// Submit closes the drafting phase, fires one grading call per answered
// open-ended item, and requests the holistic narrative once.
//
// The narrative uses the scores known at this moment; per-item grades that
// arrive later are deliberately not folded back in.
func (s *AttemptService) Submit(attemptID string) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}

	a.mu.Lock()
	if a.phase != PhaseDrafting {
		a.mu.Unlock()
		return AttemptSnapshot{}, ErrAlreadySubmitted
	}
	a.phase = PhaseSubmitted
	a.feedbackInProgress = true
	epoch := a.epoch
	choices := copyChoices(a.choices)
	a.mu.Unlock()

	// Submit-time scores for the holistic narrative.
	mcScore := s.scoring.MultipleChoiceScore(choices, s.course.MultipleChoiceQuestions)
	saScores := a.shortAnswers.GradedScores()
	essayScore := firstScore(a.essays.GradedScores())

	for _, rec := range a.shortAnswers.Records() {
		if !gradable(rec) {
			continue
		}
		question, ok := s.course.ShortAnswer(rec.ID)
		if !ok || !a.shortAnswers.BeginGrading(rec.ID) {
			continue
		}
		go s.gradeShortAnswer(a, epoch, question, rec.Answer)
	}

	for _, rec := range a.essays.Records() {
		if !gradable(rec) {
			continue
		}
		question, ok := s.course.Essay(rec.ID)
		if !ok || !a.essays.BeginGrading(rec.ID) {
			continue
		}
		go s.gradeEssay(a, epoch, question, rec.Answer)
	}

	go s.generateOverallFeedback(a, epoch, mcScore, saScores, essayScore)

	return s.publish(a), nil
}

// Reset returns the attempt to drafting with no residual state from the
// previous sitting.
func (s *AttemptService) Reset(attemptID string) (AttemptSnapshot, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptSnapshot{}, err
	}

	a.mu.Lock()
	a.phase = PhaseDrafting
	a.epoch++
	a.choices = make(map[int]string)
	a.shortAnswers.Reset()
	a.essays.Reset()
	a.overallFeedback = ""
	a.feedbackError = ""
	a.feedbackInProgress = false
	a.mu.Unlock()

	return s.publish(a), nil
}

// Results computes the score projection for an attempt from whatever has
// graded so far. Never stored; always recomputed.
func (s *AttemptService) Results(attemptID string) (AttemptResults, error) {
	a, err := s.attempt(attemptID)
	if err != nil {
		return AttemptResults{}, err
	}

	a.mu.Lock()
	choices := copyChoices(a.choices)
	results := AttemptResults{
		OverallFeedback:    a.overallFeedback,
		FeedbackError:      a.feedbackError,
		FeedbackInProgress: a.feedbackInProgress,
		CredentialMissing:  a.credentialMissing,
	}
	a.mu.Unlock()

	results.MultipleChoiceScore = s.scoring.MultipleChoiceScore(choices, s.course.MultipleChoiceQuestions)
	results.ShortAnswerScores = gradedQuestionScores(a.shortAnswers)
	results.EssayScores = gradedQuestionScores(a.essays)

	saScores := a.shortAnswers.GradedScores()
	// Only the first graded essay feeds the composite, even when the
	// course carries several essay prompts.
	essayScore := firstScore(a.essays.GradedScores())
	results.CompositeScore = s.scoring.CompositeScore(results.MultipleChoiceScore, saScores, essayScore)

	return results, nil
}

func (s *AttemptService) gradeShortAnswer(a *Attempt, epoch uint64, question models.ShortAnswerQuestion, answer string) {
	result, err := s.grader.GradeShortAnswer(context.Background(), question.Question, answer, question.ReferenceAnswer)
	s.finishGrading(a, epoch, a.shortAnswers, question.ID, result, err)
}

func (s *AttemptService) gradeEssay(a *Attempt, epoch uint64, question models.EssayQuestion, answer string) {
	result, err := s.grader.GradeEssay(context.Background(), question.Title, question.Question, answer, question.Rubric)
	s.finishGrading(a, epoch, a.essays, question.ID, result, err)
}

// finishGrading lands one grading call's outcome, unless the attempt was
// reset while the call was in flight.
func (s *AttemptService) finishGrading(a *Attempt, epoch uint64, store *ResponseStore, questionID int, result *models.GradingResult, err error) {
	a.mu.Lock()
	if a.epoch != epoch {
		a.mu.Unlock()
		return
	}
	if err != nil {
		if errors.Is(err, grader.ErrCredentialMissing) {
			a.credentialMissing = true
		}
		store.FailGrading(questionID, err.Error())
		a.mu.Unlock()
		log.Printf("attempt %s: grading question %d failed: %v", a.id, questionID, err)
		s.publish(a)
		return
	}
	store.CompleteGrading(questionID, result)
	a.mu.Unlock()
	s.publish(a)
}

func (s *AttemptService) generateOverallFeedback(a *Attempt, epoch uint64, mcScore float64, saScores []float64, essayScore float64) {
	// The prompt never receives an empty score list; an attempt with no
	// graded short answers reports a single zero instead.
	promptScores := saScores
	if len(promptScores) == 0 {
		promptScores = []float64{0}
	}
	total := s.scoring.CompositeScore(mcScore, saScores, essayScore)

	feedback, err := s.grader.OverallFeedback(context.Background(), mcScore, promptScores, essayScore, total)

	a.mu.Lock()
	if a.epoch != epoch {
		a.mu.Unlock()
		return
	}
	a.feedbackInProgress = false
	if err != nil {
		if errors.Is(err, grader.ErrCredentialMissing) {
			a.credentialMissing = true
		}
		a.feedbackError = err.Error()
		a.mu.Unlock()
		log.Printf("attempt %s: overall feedback failed: %v", a.id, err)
	} else {
		a.overallFeedback = feedback
		a.mu.Unlock()
	}
	s.publish(a)
}

func (s *AttemptService) snapshot(a *Attempt) AttemptSnapshot {
	a.mu.Lock()
	snap := AttemptSnapshot{
		ID:                 a.id,
		Phase:              a.phase,
		Choices:            copyChoices(a.choices),
		OverallFeedback:    a.overallFeedback,
		FeedbackError:      a.feedbackError,
		FeedbackInProgress: a.feedbackInProgress,
		CredentialMissing:  a.credentialMissing,
	}
	a.mu.Unlock()

	snap.ShortAnswers = a.shortAnswers.Records()
	snap.Essays = a.essays.Records()
	return snap
}

// publish snapshots the attempt and pushes the snapshot to any watching
// WebSocket clients.
func (s *AttemptService) publish(a *Attempt) AttemptSnapshot {
	snap := s.snapshot(a)
	if s.hub != nil {
		s.hub.Broadcast(a.id, ws.WSMessage{Type: "attempt_state", Data: snap})
	}
	return snap
}

func (s *AttemptService) multipleChoice(id int) (models.MultipleChoiceQuestion, bool) {
	for _, q := range s.course.MultipleChoiceQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return models.MultipleChoiceQuestion{}, false
}

func gradable(rec models.AnswerRecord) bool {
	return strings.TrimSpace(rec.Answer) != "" && rec.Grading == nil && !rec.IsLoading
}

func gradedQuestionScores(store *ResponseStore) []QuestionScore {
	var scores []QuestionScore
	for _, rec := range store.Records() {
		if rec.Grading != nil {
			scores = append(scores, QuestionScore{QuestionID: rec.ID, Score: rec.Grading.Score})
		}
	}
	return scores
}

func firstScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	return scores[0]
}

func copyChoices(choices map[int]string) map[int]string {
	out := make(map[int]string, len(choices))
	for id, option := range choices {
		out[id] = option
	}
	return out
}

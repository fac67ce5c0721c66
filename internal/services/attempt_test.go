package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/content"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/grader"
	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/models"
)

type fakeGrader struct {
	mu          sync.Mutex
	unavailable bool
	gradeErr    error
	scores      map[string]float64 // keyed by student answer text
	feedback    string
	feedbackErr error
	block       chan struct{} // when set, grading calls wait on it

	saCalls      int
	essayCalls   int
	overallCalls int
	overallMC    float64
	overallSA    []float64
	overallEssay float64
	overallTotal float64
}

func (f *fakeGrader) Available() bool { return !f.unavailable }

func (f *fakeGrader) grade(answer string) (*models.GradingResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gradeErr != nil {
		return nil, f.gradeErr
	}
	score, ok := f.scores[answer]
	if !ok {
		score = 75
	}
	return &models.GradingResult{Score: score, Feedback: "評語", Suggestions: "建議"}, nil
}

func (f *fakeGrader) GradeShortAnswer(_ context.Context, _, answer, _ string) (*models.GradingResult, error) {
	f.mu.Lock()
	f.saCalls++
	f.mu.Unlock()
	return f.grade(answer)
}

func (f *fakeGrader) GradeEssay(_ context.Context, _, _, answer string, _ models.Rubric) (*models.GradingResult, error) {
	f.mu.Lock()
	f.essayCalls++
	f.mu.Unlock()
	return f.grade(answer)
}

func (f *fakeGrader) OverallFeedback(_ context.Context, mcScore float64, saScores []float64, essayScore, total float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overallCalls++
	f.overallMC = mcScore
	f.overallSA = append([]float64(nil), saScores...)
	f.overallEssay = essayScore
	f.overallTotal = total
	if f.feedbackErr != nil {
		return "", f.feedbackErr
	}
	if f.feedback == "" {
		return "整體評語", nil
	}
	return f.feedback, nil
}

func (f *fakeGrader) counts() (sa, essay, overall int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saCalls, f.essayCalls, f.overallCalls
}

func testCourse() *content.Course {
	return &content.Course{
		MultipleChoiceQuestions: mcQuestions(5),
		ShortAnswerQuestions: []models.ShortAnswerQuestion{
			{ID: 1, Question: "問題一", ReferenceAnswer: "參考一"},
			{ID: 2, Question: "問題二", ReferenceAnswer: "參考二"},
		},
		EssayQuestions: []models.EssayQuestion{
			{ID: 1, Title: "題目一", Question: "要求一"},
			{ID: 2, Title: "題目二", Question: "要求二"},
		},
	}
}

func newTestService(g Grader) *AttemptService {
	return NewAttemptService(testCourse(), g, NewScoringService(), nil)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (s *AttemptService) mustSnapshot(t *testing.T, id string) AttemptSnapshot {
	t.Helper()
	snap, err := s.Snapshot(id)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func allGraded(records []models.AnswerRecord) bool {
	for _, rec := range records {
		if rec.Grading == nil {
			return false
		}
	}
	return len(records) > 0
}

func TestSubmitGradesAnsweredItems(t *testing.T) {
	fake := &fakeGrader{scores: map[string]float64{"回答一": 80, "回答二": 90, "作文": 70}}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	if attempt.Phase != PhaseDrafting {
		t.Fatalf("new attempt phase = %q, want drafting", attempt.Phase)
	}

	if _, err := svc.SelectChoice(attempt.ID, 1, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetShortAnswer(attempt.ID, 1, "回答一"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetShortAnswer(attempt.ID, 2, "回答二"); err != nil {
		t.Fatal(err)
	}
	// Whitespace-only answers are not submitted for grading.
	if _, err := svc.SetEssay(attempt.ID, 2, "   "); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetEssay(attempt.ID, 1, "作文"); err != nil {
		t.Fatal(err)
	}

	snap, err := svc.Submit(attempt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Phase != PhaseSubmitted {
		t.Errorf("phase after submit = %q, want submitted", snap.Phase)
	}

	waitFor(t, "all items graded", func() bool {
		s := svc.mustSnapshot(t, attempt.ID)
		graded := 0
		for _, rec := range append(s.ShortAnswers, s.Essays...) {
			if rec.Grading != nil {
				graded++
			}
		}
		return graded == 3 && !s.FeedbackInProgress
	})

	sa, essay, overall := fake.counts()
	if sa != 2 || essay != 1 || overall != 1 {
		t.Errorf("calls = (%d sa, %d essay, %d overall), want (2, 1, 1)", sa, essay, overall)
	}

	results, err := svc.Results(attempt.ID)
	if err != nil {
		t.Fatal(err)
	}
	// mc: 1 of 5 answered, correct = 100. sa mean 85, essay 70.
	want := 100*0.30 + 85*0.40 + 70*0.30
	if !almostEqual(results.CompositeScore, want) {
		t.Errorf("CompositeScore = %v, want %v", results.CompositeScore, want)
	}
	if results.OverallFeedback != "整體評語" {
		t.Errorf("OverallFeedback = %q", results.OverallFeedback)
	}
}

func TestHolisticFeedbackUsesSubmitTimeScores(t *testing.T) {
	// The narrative reflects only scores known at the submission moment.
	// Per-item grades that arrive later are deliberately not folded in;
	// this test pins that contract.
	fake := &fakeGrader{scores: map[string]float64{"回答": 95}}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	svc.SelectChoice(attempt.ID, 1, "A")
	svc.SelectChoice(attempt.ID, 2, "B")
	svc.SetShortAnswer(attempt.ID, 1, "回答")

	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "grading settled", func() bool {
		s := svc.mustSnapshot(t, attempt.ID)
		return allGraded(s.ShortAnswers) && !s.FeedbackInProgress
	})

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.overallCalls != 1 {
		t.Fatalf("overall feedback requested %d times, want exactly 1", fake.overallCalls)
	}
	// 2 of 5 answered, 1 correct: deduction 20 -> 80.
	if !almostEqual(fake.overallMC, 80) {
		t.Errorf("narrative mc score = %v, want 80", fake.overallMC)
	}
	// No short answer had graded yet at submit time, so the prompt saw a
	// single zero, and the composite treated the list as empty.
	if len(fake.overallSA) != 1 || fake.overallSA[0] != 0 {
		t.Errorf("narrative sa scores = %v, want [0]", fake.overallSA)
	}
	if !almostEqual(fake.overallTotal, 80*0.30) {
		t.Errorf("narrative total = %v, want %v", fake.overallTotal, 80*0.30)
	}
}

func TestSubmitTwiceRejected(t *testing.T) {
	svc := newTestService(&fakeGrader{})
	attempt := svc.CreateAttempt()

	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(attempt.ID); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit error = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := svc.SetShortAnswer(attempt.ID, 1, "late"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("input after submit error = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := svc.SelectChoice(attempt.ID, 1, "A"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("choice after submit error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestCredentialMissingFlag(t *testing.T) {
	fake := &fakeGrader{
		unavailable: true,
		gradeErr:    grader.ErrCredentialMissing,
		feedbackErr: grader.ErrCredentialMissing,
	}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	svc.SetShortAnswer(attempt.ID, 1, "回答")

	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "credential flag", func() bool {
		return svc.mustSnapshot(t, attempt.ID).CredentialMissing
	})

	snap := svc.mustSnapshot(t, attempt.ID)
	if len(snap.ShortAnswers) != 1 || snap.ShortAnswers[0].Error == "" {
		t.Errorf("failed item should carry the error message, got %+v", snap.ShortAnswers)
	}
	if snap.ShortAnswers[0].Grading != nil {
		t.Error("failed item must not hold a result")
	}

	// The flag is session-wide and monotonic: reset keeps it.
	reset, err := svc.Reset(attempt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reset.CredentialMissing {
		t.Error("reset cleared the credential-missing flag")
	}
}

func TestGradingFailureIsLocalToItem(t *testing.T) {
	// Essay grading fails, the sibling short answer and the holistic
	// feedback still complete.
	svc := newTestService(&splitGrader{
		saResult:    &models.GradingResult{Score: 88, Feedback: "好", Suggestions: "續"},
		essayErr:    grader.ErrTransport,
		feedbackOut: "整體評語",
	})
	attempt := svc.CreateAttempt()
	svc.SetShortAnswer(attempt.ID, 1, "好的回答")
	svc.SetEssay(attempt.ID, 1, "作文")
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "mixed outcome settled", func() bool {
		s := svc.mustSnapshot(t, attempt.ID)
		return len(s.ShortAnswers) == 1 && s.ShortAnswers[0].Grading != nil &&
			len(s.Essays) == 1 && s.Essays[0].Error != "" && !s.FeedbackInProgress
	})

	snap := svc.mustSnapshot(t, attempt.ID)
	if snap.CredentialMissing {
		t.Error("transport failure must not set the credential flag")
	}
	if snap.OverallFeedback != "整體評語" {
		t.Errorf("essay failure blocked the holistic feedback: %+v", snap)
	}
}

// splitGrader returns fixed outcomes per operation.
type splitGrader struct {
	saResult    *models.GradingResult
	saErr       error
	essayResult *models.GradingResult
	essayErr    error
	feedbackOut string
	feedbackErr error
}

func (g *splitGrader) Available() bool { return true }

func (g *splitGrader) GradeShortAnswer(context.Context, string, string, string) (*models.GradingResult, error) {
	return g.saResult, g.saErr
}

func (g *splitGrader) GradeEssay(context.Context, string, string, string, models.Rubric) (*models.GradingResult, error) {
	return g.essayResult, g.essayErr
}

func (g *splitGrader) OverallFeedback(context.Context, float64, []float64, float64, float64) (string, error) {
	return g.feedbackOut, g.feedbackErr
}

func TestResetProducesIndependentAttempt(t *testing.T) {
	fake := &fakeGrader{scores: map[string]float64{"第一次": 60, "第二次": 90}}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	svc.SelectChoice(attempt.ID, 1, "A")
	svc.SetShortAnswer(attempt.ID, 1, "第一次")
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "first sitting graded", func() bool {
		s := svc.mustSnapshot(t, attempt.ID)
		return allGraded(s.ShortAnswers) && !s.FeedbackInProgress
	})

	snap, err := svc.Reset(attempt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Phase != PhaseDrafting {
		t.Errorf("phase after reset = %q, want drafting", snap.Phase)
	}
	if len(snap.ShortAnswers) != 0 || len(snap.Essays) != 0 || len(snap.Choices) != 0 {
		t.Errorf("reset left residual state: %+v", snap)
	}
	if snap.OverallFeedback != "" {
		t.Error("reset left the holistic narrative")
	}

	// Second sitting is fully independent.
	svc.SetShortAnswer(attempt.ID, 1, "第二次")
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "second sitting graded", func() bool {
		s := svc.mustSnapshot(t, attempt.ID)
		return allGraded(s.ShortAnswers)
	})

	snap = svc.mustSnapshot(t, attempt.ID)
	if got := snap.ShortAnswers[0].Grading.Score; got != 90 {
		t.Errorf("second sitting score = %v, want 90 (no residue from first)", got)
	}
}

func TestInFlightGradingIgnoredAfterReset(t *testing.T) {
	block := make(chan struct{})
	fake := &fakeGrader{block: block}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	svc.SetShortAnswer(attempt.ID, 1, "回答")
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "call dispatched", func() bool {
		sa, _, _ := fake.counts()
		return sa == 1
	})

	if _, err := svc.Reset(attempt.ID); err != nil {
		t.Fatal(err)
	}
	close(block)

	// Give the stale goroutine a chance to (wrongly) land its result.
	time.Sleep(50 * time.Millisecond)

	snap := svc.mustSnapshot(t, attempt.ID)
	if len(snap.ShortAnswers) != 0 {
		t.Errorf("stale grading call wrote into the reset attempt: %+v", snap.ShortAnswers)
	}
}

func TestGradeItemBeforeSubmit(t *testing.T) {
	// An item graded on demand keeps its result through submit: the
	// orchestrator does not fire a second call for it, and the holistic
	// narrative sees its score as known at submit time.
	fake := &fakeGrader{scores: map[string]float64{"先批改": 90}}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	svc.SetShortAnswer(attempt.ID, 1, "先批改")

	snap, err := svc.GradeShortAnswerItem(attempt.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Phase != PhaseDrafting {
		t.Errorf("on-demand grading changed phase to %q", snap.Phase)
	}

	waitFor(t, "item graded", func() bool {
		return allGraded(svc.mustSnapshot(t, attempt.ID).ShortAnswers)
	})

	// Grading it again while the result stands is rejected.
	if _, err := svc.GradeShortAnswerItem(attempt.ID, 1); !errors.Is(err, ErrNotGradable) {
		t.Errorf("regrade error = %v, want ErrNotGradable", err)
	}

	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "narrative settled", func() bool {
		return !svc.mustSnapshot(t, attempt.ID).FeedbackInProgress
	})

	sa, _, overall := fake.counts()
	if sa != 1 {
		t.Errorf("short-answer calls = %d, want 1 (submit must not regrade)", sa)
	}
	if overall != 1 {
		t.Fatalf("overall calls = %d, want 1", overall)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.overallSA) != 1 || fake.overallSA[0] != 90 {
		t.Errorf("narrative sa scores = %v, want [90]", fake.overallSA)
	}
	if !almostEqual(fake.overallTotal, 90*0.40) {
		t.Errorf("narrative total = %v, want %v", fake.overallTotal, 90*0.40)
	}
}

func TestGradeItemValidation(t *testing.T) {
	svc := newTestService(&fakeGrader{})
	attempt := svc.CreateAttempt()

	if _, err := svc.GradeShortAnswerItem(attempt.ID, 42); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("unknown question error = %v, want ErrQuestionNotFound", err)
	}
	// Nothing written yet: there is no answer to grade.
	if _, err := svc.GradeShortAnswerItem(attempt.ID, 1); !errors.Is(err, ErrNotGradable) {
		t.Errorf("empty answer error = %v, want ErrNotGradable", err)
	}
	svc.SetEssay(attempt.ID, 1, "   ")
	if _, err := svc.GradeEssayItem(attempt.ID, 1); !errors.Is(err, ErrNotGradable) {
		t.Errorf("blank essay error = %v, want ErrNotGradable", err)
	}

	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GradeShortAnswerItem(attempt.ID, 1); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("post-submit error = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSelectChoiceValidation(t *testing.T) {
	svc := newTestService(&fakeGrader{})
	attempt := svc.CreateAttempt()

	if _, err := svc.SelectChoice(attempt.ID, 42, "A"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("unknown question error = %v, want ErrQuestionNotFound", err)
	}
	if _, err := svc.SelectChoice(attempt.ID, 1, "Z"); err == nil {
		t.Error("unknown option label accepted")
	}
	if _, err := svc.SetShortAnswer(attempt.ID, 42, "x"); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("unknown short-answer id error = %v, want ErrQuestionNotFound", err)
	}
	if _, err := svc.Snapshot("nope"); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("unknown attempt error = %v, want ErrAttemptNotFound", err)
	}
}

func TestCompositeUsesFirstGradedEssayOnly(t *testing.T) {
	// Multi-essay weighting is undefined; the composite takes the first
	// graded essay by question id.
	fake := &fakeGrader{scores: map[string]float64{"作文一": 40, "作文二": 100}}
	svc := newTestService(fake)

	attempt := svc.CreateAttempt()
	svc.SetEssay(attempt.ID, 1, "作文一")
	svc.SetEssay(attempt.ID, 2, "作文二")
	if _, err := svc.Submit(attempt.ID); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "essays graded", func() bool {
		return allGraded(svc.mustSnapshot(t, attempt.ID).Essays)
	})

	results, err := svc.Results(attempt.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := 40 * 0.30 // mc 0, sa empty, essay = first graded (id 1)
	if !almostEqual(results.CompositeScore, want) {
		t.Errorf("CompositeScore = %v, want %v", results.CompositeScore, want)
	}
	if len(results.EssayScores) != 2 {
		t.Errorf("EssayScores = %v, want both essays listed", results.EssayScores)
	}
}

package services

import (
	"sort"
	"sync"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/models"
)

// ResponseStore holds the answer records for one open-ended quiz section,
// keyed by question id. Every mutation replaces the stored record value, so
// readers always observe a consistent snapshot.
type ResponseStore struct {
	mu      sync.RWMutex
	records map[int]models.AnswerRecord
}

func NewResponseStore() *ResponseStore {
	return &ResponseStore{records: make(map[int]models.AnswerRecord)}
}

// SetAnswerText upserts the record for id, replacing only the answer text.
func (r *ResponseStore) SetAnswerText(id int, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		rec = models.AnswerRecord{ID: id}
	}
	rec.Answer = text
	r.records[id] = rec
}

// BeginGrading marks the record as loading and clears any previous error.
// It reports false, without changing anything, when the record is missing,
// already graded, or already in flight.
func (r *ResponseStore) BeginGrading(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.Grading != nil || rec.IsLoading {
		return false
	}
	rec.IsLoading = true
	rec.Error = ""
	r.records[id] = rec
	return true
}

// CompleteGrading attaches the result and clears the loading flag. It is a
// no-op when the record no longer exists (the attempt was reset while the
// call was in flight).
func (r *ResponseStore) CompleteGrading(id int, result *models.GradingResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return
	}
	rec.Grading = result
	rec.IsLoading = false
	rec.Error = ""
	r.records[id] = rec
}

// FailGrading records the failure message and clears the loading flag.
// A record that already holds a result is left untouched.
func (r *ResponseStore) FailGrading(id int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok || rec.Grading != nil {
		return
	}
	rec.Error = message
	rec.IsLoading = false
	r.records[id] = rec
}

// Reset drops all records.
func (r *ResponseStore) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[int]models.AnswerRecord)
}

// Get returns a copy of the record for id.
func (r *ResponseStore) Get(id int) (models.AnswerRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Records returns copies of all records ordered by question id.
func (r *ResponseStore) Records() []models.AnswerRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.AnswerRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// GradedScores returns the scores of all graded records ordered by
// question id.
func (r *ResponseStore) GradedScores() []float64 {
	var scores []float64
	for _, rec := range r.Records() {
		if rec.Grading != nil {
			scores = append(scores, rec.Grading.Score)
		}
	}
	return scores
}

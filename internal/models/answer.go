package models

// GradingResult is the validated output of one grader call.
// Immutable once attached to an AnswerRecord.
type GradingResult struct {
	Score       float64 `json:"score"`
	Feedback    string  `json:"feedback"`
	Suggestions string  `json:"suggestions"`
}

// AnswerRecord tracks a learner's free-text answer and its grading
// lifecycle for one short-answer or essay question.
type AnswerRecord struct {
	ID        int            `json:"id"`
	Answer    string         `json:"answer"`
	Grading   *GradingResult `json:"grading,omitempty"`
	IsLoading bool           `json:"is_loading"`
	Error     string         `json:"error,omitempty"`
}

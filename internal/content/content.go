package content

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed course.yaml
var defaultCourse []byte

// Course bundles the immutable content the quiz serves: the review outline
// and the three question sections.
type Course struct {
	Review                  models.ReviewMaterial          `yaml:"review" json:"review"`
	MultipleChoiceQuestions []models.MultipleChoiceQuestion `yaml:"multiple_choice_questions" json:"multiple_choice_questions"`
	ShortAnswerQuestions    []models.ShortAnswerQuestion    `yaml:"short_answer_questions" json:"short_answer_questions"`
	EssayQuestions          []models.EssayQuestion          `yaml:"essay_questions" json:"essay_questions"`
}

// Load reads course content from path, or the embedded course when path is
// empty.
func Load(path string) (*Course, error) {
	data := defaultCourse
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content file: %w", err)
		}
		data = b
	}

	var course Course
	if err := yaml.Unmarshal(data, &course); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}
	if err := course.validate(); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Course) validate() error {
	seen := map[int]bool{}
	for _, q := range c.MultipleChoiceQuestions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate multiple-choice question id %d", q.ID)
		}
		seen[q.ID] = true
		if !hasOption(q.Options, q.CorrectAnswer) {
			return fmt.Errorf("question %d: correct answer %q is not an option label", q.ID, q.CorrectAnswer)
		}
	}

	seen = map[int]bool{}
	for _, q := range c.ShortAnswerQuestions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate short-answer question id %d", q.ID)
		}
		seen[q.ID] = true
	}

	seen = map[int]bool{}
	for _, q := range c.EssayQuestions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate essay question id %d", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

func hasOption(options []models.ChoiceOption, label string) bool {
	for _, o := range options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// ShortAnswer returns the short-answer question with the given id.
func (c *Course) ShortAnswer(id int) (models.ShortAnswerQuestion, bool) {
	for _, q := range c.ShortAnswerQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return models.ShortAnswerQuestion{}, false
}

// Essay returns the essay question with the given id.
func (c *Course) Essay(id int) (models.EssayQuestion, bool) {
	for _, q := range c.EssayQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return models.EssayQuestion{}, false
}

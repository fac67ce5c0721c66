package models

// RubricCriterion is one grading level inside a rubric section.
type RubricCriterion struct {
	Level       string `yaml:"level" json:"level"`
	Description string `yaml:"description" json:"description"`
}

type RubricSection struct {
	Key      string            `yaml:"key" json:"key"`
	Title    string            `yaml:"title" json:"title"`
	Criteria []RubricCriterion `yaml:"criteria" json:"criteria"`
}

// Rubric is an ordered list of sections. The grading core never interprets
// it; it is rendered to text inside the grader prompt.
type Rubric []RubricSection

type EssayQuestion struct {
	ID       int    `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Question string `yaml:"question" json:"question"`
	Rubric   Rubric `yaml:"rubric" json:"rubric"`
}

package models

type ChoiceOption struct {
	Label string `yaml:"label" json:"label"`
	Text  string `yaml:"text" json:"text"`
}

type MultipleChoiceQuestion struct {
	ID            int            `yaml:"id" json:"id"`
	Question      string         `yaml:"question" json:"question"`
	Options       []ChoiceOption `yaml:"options" json:"options"`
	CorrectAnswer string         `yaml:"correct_answer" json:"correct_answer"`
}

type ShortAnswerQuestion struct {
	ID              int    `yaml:"id" json:"id"`
	Question        string `yaml:"question" json:"question"`
	ReferenceAnswer string `yaml:"reference_answer" json:"reference_answer"`
}

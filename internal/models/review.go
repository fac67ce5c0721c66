package models

type ContentBlock struct {
	Heading string   `yaml:"heading,omitempty" json:"heading,omitempty"`
	Points  []string `yaml:"points" json:"points"`
}

type ReviewSubsection struct {
	Subtitle string         `yaml:"subtitle" json:"subtitle"`
	Content  []ContentBlock `yaml:"content" json:"content"`
}

type ReviewSection struct {
	Title       string             `yaml:"title" json:"title"`
	Subsections []ReviewSubsection `yaml:"subsections" json:"subsections"`
}

// ReviewMaterial is the static study outline shown alongside the quiz.
type ReviewMaterial struct {
	Title    string          `yaml:"title" json:"title"`
	Sections []ReviewSection `yaml:"sections" json:"sections"`
}

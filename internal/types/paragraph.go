// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Paragraph is one unit of document text with the formatting hints the loader could read.
type Paragraph struct {
	Text     string   `json:"text"`
	IsBold   bool     `json:"is_bold"`
	FontSize *float64 `json:"font_size"` // points; nil when unknown
	IsHeader bool     `json:"is_header"`
}

// SectionLabel names the résumé section a paragraph was assigned to
type SectionLabel string

const (
	LabelContact    SectionLabel = "contact"
	LabelEducation  SectionLabel = "education"
	LabelExperience SectionLabel = "experience"
	LabelSkills     SectionLabel = "skills"
	LabelUnknown    SectionLabel = "unknown"
)

// KnownLabels lists the recognized labels in their declared tie-break order.
var KnownLabels = []SectionLabel{LabelContact, LabelEducation, LabelExperience, LabelSkills}

// Valid reports whether the label is one of the five section labels.
func (l SectionLabel) Valid() bool {
	switch l {
	case LabelContact, LabelEducation, LabelExperience, LabelSkills, LabelUnknown:
		return true
	}
	return false
}

// Section is an ordered bucket of paragraphs sharing one label
type Section struct {
	Label      SectionLabel `json:"label"`
	Paragraphs []Paragraph  `json:"paragraphs"`
}

// Texts returns the paragraph texts in order.
func (s Section) Texts() []string {
	texts := make([]string, 0, len(s.Paragraphs))
	for _, p := range s.Paragraphs {
		texts = append(texts, p.Text)
	}
	return texts
}

// HeaderMatch records a paragraph consumed as a section header and the rule that claimed it
type HeaderMatch struct {
	Text  string       `json:"text"`
	Label SectionLabel `json:"label"`
	Rule  string       `json:"rule"`
}

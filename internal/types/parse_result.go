package types

// NoInformation is the sentinel stored in any scalar field the parser could not fill.
const NoInformation = "No information available"

// ContactInfo holds the candidate's contact details
type ContactInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

// EmptyContactInfo returns a ContactInfo with every field set to the sentinel.
func EmptyContactInfo() ContactInfo {
	return ContactInfo{
		Name:     NoInformation,
		Email:    NoInformation,
		Phone:    NoInformation,
		Location: NoInformation,
		LinkedIn: NoInformation,
	}
}

// MissingFields returns the JSON names of the fields still holding the sentinel.
func (c ContactInfo) MissingFields() []string {
	missing := []string{}
	fields := []struct {
		name  string
		value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"location", c.Location},
		{"linkedin", c.LinkedIn},
	}
	for _, f := range fields {
		if f.value == NoInformation {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ExperienceEntry represents one position reconstructed from the experience section
type ExperienceEntry struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Duration     string   `json:"duration"`
	Description  []string `json:"description"`
	Achievements []string `json:"achievements"`
}

// EducationEntry represents one degree line from the education section
type EducationEntry struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	GraduationYear string `json:"graduation_year"`
}

// SkillCategory is one of the four fixed skill buckets
type SkillCategory string

const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillLanguages SkillCategory = "languages"
	SkillTools     SkillCategory = "tools"
)

// SkillCategories lists the categories in classification order.
var SkillCategories = []SkillCategory{SkillTechnical, SkillSoft, SkillLanguages, SkillTools}

// Valid reports whether c is one of the four categories.
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillTechnical, SkillSoft, SkillLanguages, SkillTools:
		return true
	}
	return false
}

// SkillSet maps each category to its de-duplicated skills, in first-seen order
type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
	Tools     []string `json:"tools"`
}

// NewSkillSet returns a SkillSet whose four lists are empty rather than nil.
func NewSkillSet() SkillSet {
	return SkillSet{
		Technical: []string{},
		Soft:      []string{},
		Languages: []string{},
		Tools:     []string{},
	}
}

// Get returns the skills stored under the category.
func (s SkillSet) Get(c SkillCategory) []string {
	switch c {
	case SkillSoft:
		return s.Soft
	case SkillLanguages:
		return s.Languages
	case SkillTools:
		return s.Tools
	default:
		return s.Technical
	}
}

// Append adds a skill to the category without de-duplication.
func (s *SkillSet) Append(c SkillCategory, skill string) {
	switch c {
	case SkillSoft:
		s.Soft = append(s.Soft, skill)
	case SkillLanguages:
		s.Languages = append(s.Languages, skill)
	case SkillTools:
		s.Tools = append(s.Tools, skill)
	default:
		s.Technical = append(s.Technical, skill)
	}
}

// Count returns the total number of skills across categories.
func (s SkillSet) Count() int {
	return len(s.Technical) + len(s.Soft) + len(s.Languages) + len(s.Tools)
}

// ParseMetadata describes how a document was parsed
type ParseMetadata struct {
	SectionsFound  []SectionLabel `json:"sections_found"`
	ParsedAt       string         `json:"parsed_at"` // RFC3339, UTC
	MissingFields  []string       `json:"missing_fields"`
	ParagraphCount int            `json:"paragraph_count"`
	Headers        []HeaderMatch  `json:"headers"`
}

// ParseResult is the structured record produced for one résumé
type ParseResult struct {
	Contact    ContactInfo       `json:"contact"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Skills     SkillSet          `json:"skills"`
	Metadata   ParseMetadata     `json:"metadata"`
}

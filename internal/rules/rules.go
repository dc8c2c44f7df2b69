// Package rules holds the declarative rule table that drives section
// classification and keyword categorization.
//
// The default table is embedded from rules.yaml at compile time and may be
// replaced by a file with the same shape.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-parser/internal/types"
)

// HeaderRule maps a normalized paragraph pattern to a section label
type HeaderRule struct {
	Name     string             `yaml:"name" json:"name" validate:"required"`
	Label    types.SectionLabel `yaml:"label" json:"label" validate:"required,oneof=contact education experience skills"`
	Pattern  string             `yaml:"pattern" json:"pattern" validate:"required"`
	Priority int                `yaml:"priority" json:"priority"`

	re *regexp.Regexp
}

// Matches reports whether the normalized text satisfies the rule.
func (r HeaderRule) Matches(normalized string) bool {
	return r.re != nil && r.re.MatchString(normalized)
}

// SkillIndicator lists the keywords that place a skill token in a category
type SkillIndicator struct {
	Category types.SkillCategory `yaml:"category" json:"category" validate:"required,oneof=technical soft languages tools"`
	Keywords []string            `yaml:"keywords" json:"keywords" validate:"required,min=1,dive,required"`
	Priority int                 `yaml:"priority" json:"priority"`
}

// ContactRules tunes name detection
type ContactRules struct {
	NameWindow    int      `yaml:"name_window" json:"name_window" validate:"min=1,max=20"`
	NameMinScore  int      `yaml:"name_min_score" json:"name_min_score" validate:"min=1"`
	NameStopwords []string `yaml:"name_stopwords" json:"name_stopwords" validate:"dive,required"`
	NameParticles []string `yaml:"name_particles" json:"name_particles" validate:"dive,required"`
}

// ExperienceRules tunes entry boundaries and achievement detection
type ExperienceRules struct {
	SeniorityPrefixes  []string `yaml:"seniority_prefixes" json:"seniority_prefixes" validate:"dive,required"`
	AchievementMarkers []string `yaml:"achievement_markers" json:"achievement_markers" validate:"dive,required"`
}

// Table is a compiled, read-only rule set. It is safe for concurrent use.
type Table struct {
	Version    int              `yaml:"version" json:"version"`
	Headers    []HeaderRule     `yaml:"headers" json:"headers" validate:"required,min=1,dive"`
	Skills     []SkillIndicator `yaml:"skills" json:"skills" validate:"dive"`
	Contact    ContactRules     `yaml:"contact" json:"contact"`
	Experience ExperienceRules  `yaml:"experience" json:"experience"`

	ordered []HeaderRule
	skills  []SkillIndicator
}

var validate = validator.New()

// Parse decodes and compiles a YAML rule table. Unknown keys are rejected.
func Parse(data []byte) (*Table, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var t Table
	if err := decoder.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &RuleError{Message: "empty rule table"}
		}
		return nil, &RuleError{Message: "failed to decode YAML", Cause: err}
	}

	if err := Compile(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Compile validates the table and prepares it for matching: patterns are
// compiled, keywords lowercased, and rules ordered by descending priority
// with declaration order breaking ties.
func Compile(t *Table) error {
	if err := validate.Struct(t); err != nil {
		return &RuleError{Message: "validation failed", Cause: err}
	}

	seen := make(map[string]bool, len(t.Headers))
	for i := range t.Headers {
		rule := &t.Headers[i]
		if seen[rule.Name] {
			return &RuleError{Rule: rule.Name, Message: "duplicate rule name"}
		}
		seen[rule.Name] = true

		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return &RuleError{Rule: rule.Name, Message: "invalid pattern", Cause: err}
		}
		rule.re = re
	}

	t.ordered = make([]HeaderRule, len(t.Headers))
	copy(t.ordered, t.Headers)
	sort.SliceStable(t.ordered, func(i, j int) bool {
		return t.ordered[i].Priority > t.ordered[j].Priority
	})

	t.skills = make([]SkillIndicator, len(t.Skills))
	for i, ind := range t.Skills {
		keywords := make([]string, len(ind.Keywords))
		for k, kw := range ind.Keywords {
			keywords[k] = strings.ToLower(kw)
		}
		t.skills[i] = SkillIndicator{Category: ind.Category, Keywords: keywords, Priority: ind.Priority}
	}
	sort.SliceStable(t.skills, func(i, j int) bool {
		return t.skills[i].Priority > t.skills[j].Priority
	})

	return nil
}

// MatchHeader returns the winning header rule for already-normalized text.
func (t *Table) MatchHeader(normalized string) (HeaderRule, bool) {
	for _, rule := range t.ordered {
		if rule.Matches(normalized) {
			return rule, true
		}
	}
	return HeaderRule{}, false
}

// SkillCategory returns the first category, by indicator priority, whose
// keyword is contained in the lowercased token. Tokens matching nothing are
// technical.
func (t *Table) SkillCategory(token string) types.SkillCategory {
	lower := strings.ToLower(token)
	for _, ind := range t.skills {
		for _, kw := range ind.Keywords {
			if strings.Contains(lower, kw) {
				return ind.Category
			}
		}
	}
	return types.SkillTechnical
}

// Marshal renders the table back to YAML.
func (t *Table) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to encode rule table: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode rule table: %w", err)
	}
	return buf.Bytes(), nil
}

// WithNameWindow returns a copy of the table scanning n paragraphs for the
// candidate name. The receiver is left untouched; n < 1 returns it as is.
func (t *Table) WithNameWindow(n int) *Table {
	if n < 1 || n == t.Contact.NameWindow {
		return t
	}
	clone := *t
	clone.Contact.NameWindow = n
	return &clone
}

// Package parsing runs the résumé pipeline end to end: load, classify,
// extract and aggregate.
package parsing

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-parser/internal/extraction"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/rules"
	"github.com/jonathan/resume-parser/internal/sections"
	"github.com/jonathan/resume-parser/internal/types"
)

// Parser is stateless between calls and safe for concurrent use.
type Parser struct {
	rules *rules.Table
	now   func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithRules replaces the embedded rule table.
func WithRules(t *rules.Table) Option {
	return func(p *Parser) {
		if t != nil {
			p.rules = t
		}
	}
}

// WithClock fixes the time source used for parsed_at.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New returns a Parser using the embedded rules and the wall clock unless
// overridden.
func New(opts ...Option) (*Parser, error) {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.rules == nil {
		t, err := rules.Default()
		if err != nil {
			return nil, fmt.Errorf("failed to load default rules: %w", err)
		}
		p.rules = t
	}
	return p, nil
}

// Rules returns the table the parser classifies with.
func (p *Parser) Rules() *rules.Table {
	return p.rules
}

// ParseDocument loads a document held in memory and parses it. Loading is
// the only step that can fail.
func (p *Parser) ParseDocument(name string, data []byte) (*types.ParseResult, error) {
	paragraphs, err := ingestion.Load(name, data)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("failed to load %s", name), Cause: err}
	}
	return p.ParseParagraphs(paragraphs), nil
}

// ParseFile loads a document from disk and parses it.
func (p *Parser) ParseFile(path string) (*types.ParseResult, *ingestion.Metadata, error) {
	paragraphs, meta, err := ingestion.LoadFile(path)
	if err != nil {
		return nil, nil, &ParseError{Message: fmt.Sprintf("failed to load %s", path), Cause: err}
	}
	return p.ParseParagraphs(paragraphs), meta, nil
}

// ParseParagraphs classifies the paragraphs and runs the four extractors over
// their buckets. It never fails; missing data degrades to sentinels and
// empty lists.
func (p *Parser) ParseParagraphs(paragraphs []types.Paragraph) *types.ParseResult {
	classified := sections.Classify(paragraphs, p.rules)
	buckets := classified.Buckets

	// Contact details often precede the first header.
	contactInput := append(append([]types.Paragraph{}, buckets.Get(types.LabelUnknown)...), buckets.Get(types.LabelContact)...)
	contact := extraction.ExtractContact(contactInput, p.rules)

	return &types.ParseResult{
		Contact:    contact,
		Education:  extraction.ExtractEducation(buckets.Get(types.LabelEducation)),
		Experience: extraction.ExtractExperience(buckets.Get(types.LabelExperience), p.rules),
		Skills:     extraction.ExtractSkills(buckets.Get(types.LabelSkills), p.rules),
		Metadata: types.ParseMetadata{
			SectionsFound:  buckets.Found(),
			ParsedAt:       p.now().UTC().Format(time.RFC3339),
			MissingFields:  contact.MissingFields(),
			ParagraphCount: len(paragraphs),
			Headers:        classified.Headers,
		},
	}
}

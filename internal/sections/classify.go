// Package sections assigns each paragraph of a document to a résumé section.
package sections

import (
	"github.com/jonathan/resume-parser/internal/rules"
	"github.com/jonathan/resume-parser/internal/types"
)

// Buckets holds the classified paragraphs per label, order preserved.
type Buckets map[types.SectionLabel][]types.Paragraph

// Get returns the bucket for a label, never nil.
func (b Buckets) Get(label types.SectionLabel) []types.Paragraph {
	if ps, ok := b[label]; ok {
		return ps
	}
	return []types.Paragraph{}
}

// Sections returns every bucket as a Section in label order, unknown last.
func (b Buckets) Sections() []types.Section {
	labels := append(append([]types.SectionLabel{}, types.KnownLabels...), types.LabelUnknown)
	out := make([]types.Section, 0, len(labels))
	for _, label := range labels {
		out = append(out, types.Section{Label: label, Paragraphs: b.Get(label)})
	}
	return out
}

// Found lists the recognized labels whose bucket is non-empty, in label order.
func (b Buckets) Found() []types.SectionLabel {
	found := []types.SectionLabel{}
	for _, label := range types.KnownLabels {
		if len(b[label]) > 0 {
			found = append(found, label)
		}
	}
	return found
}

// Count returns the number of bucketed paragraphs.
func (b Buckets) Count() int {
	n := 0
	for _, ps := range b {
		n += len(ps)
	}
	return n
}

// Result is the outcome of one classification pass
type Result struct {
	Buckets Buckets
	Headers []types.HeaderMatch
}

// state is the accumulator carried through the fold
type state struct {
	current types.SectionLabel
	result  Result
}

// Classify folds over the paragraphs once. A paragraph whose normalized
// text matches a header rule is consumed as a header and switches the
// current label; every other paragraph is appended to the current bucket.
// Paragraphs before the first header land in unknown.
func Classify(paragraphs []types.Paragraph, table *rules.Table) Result {
	acc := state{
		current: types.LabelUnknown,
		result: Result{
			Buckets: Buckets{},
			Headers: []types.HeaderMatch{},
		},
	}
	for _, p := range paragraphs {
		acc = step(acc, p, table)
	}
	return acc.result
}

// step applies one paragraph to the accumulator.
func step(acc state, p types.Paragraph, table *rules.Table) state {
	if rule, ok := table.MatchHeader(NormalizeText(p.Text)); ok {
		acc.current = rule.Label
		acc.result.Headers = append(acc.result.Headers, types.HeaderMatch{
			Text:  p.Text,
			Label: rule.Label,
			Rule:  rule.Name,
		})
		return acc
	}
	acc.result.Buckets[acc.current] = append(acc.result.Buckets[acc.current], p)
	return acc
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// pad right-fills s with spaces to the inner box width, counting runes.
func pad(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= boxWidth-4 {
		return s
	}
	return s + strings.Repeat(" ", boxWidth-4-n)
}

// PrintParseResult outputs a human-readable summary of one parsed résumé.
func (p *Printer) PrintParseResult(name string, result *types.ParseResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	c := result.Contact

	sb.WriteString(fmt.Sprintf("Name:     %s\n", c.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", c.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", c.Phone))
	sb.WriteString(fmt.Sprintf("Location: %s\n", c.Location))
	sb.WriteString(fmt.Sprintf("LinkedIn: %s\n", c.LinkedIn))
	sb.WriteString("\n")

	sections := make([]string, 0, len(result.Metadata.SectionsFound))
	for _, s := range result.Metadata.SectionsFound {
		sections = append(sections, string(s))
	}
	if len(sections) == 0 {
		sections = append(sections, "none")
	}
	sb.WriteString(fmt.Sprintf("Sections: %s\n", strings.Join(sections, ", ")))
	sb.WriteString(fmt.Sprintf("Paragraphs: %d\n", result.Metadata.ParagraphCount))
	sb.WriteString("\n")

	if len(result.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(result.Experience)))
		count := min(len(result.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := result.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", e.Position))
			if e.Duration != types.NoInformation {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Duration))
			}
			sb.WriteString("\n")
		}
		if len(result.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(result.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(result.Education)))
		count := min(len(result.Education), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := result.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", e.Degree, e.GraduationYear))
		}
		if len(result.Education) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Education)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if result.Skills.Count() > 0 {
		sb.WriteString("Skills:\n")
		for _, category := range types.SkillCategories {
			skills := result.Skills.Get(category)
			if len(skills) == 0 {
				continue
			}
			shown := skills[:min(len(skills), maxItemsToShow)]
			line := fmt.Sprintf("  %-10s %s", category+":", strings.Join(shown, ", "))
			if len(skills) > maxItemsToShow {
				line += fmt.Sprintf(" (+%d)", len(skills)-maxItemsToShow)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	if len(result.Metadata.MissingFields) > 0 {
		sb.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(result.Metadata.MissingFields, ", ")))
	}

	p.printBox("PARSED RESUME: "+name, strings.TrimSuffix(sb.String(), "\n"))
}

// BatchItem is one line of a batch summary
type BatchItem struct {
	Name     string
	Sections int
	Duration time.Duration
	Err      error
}

// PrintBatchSummary outputs per-file status for a batch run.
func (p *Printer) PrintBatchSummary(items []BatchItem, elapsed time.Duration) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", item.Name, item.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s (%d sections, %s)\n", item.Name, item.Sections, item.Duration.Round(time.Millisecond)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Parsed: %d  Failed: %d  Elapsed: %s", len(items)-failed, failed, elapsed.Round(time.Millisecond)))

	p.printBox("BATCH SUMMARY", sb.String())
}

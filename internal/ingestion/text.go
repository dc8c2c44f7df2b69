package ingestion

import (
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// CleanText normalizes line endings and folds whitespace inside each line.
// Blank lines are dropped since every remaining line becomes a paragraph.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = collapseWhitespace(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, "\n")
}

// LoadText turns a plain-text résumé into paragraphs, one per non-empty line.
// Markdown headings ("# Experience") are kept as header paragraphs with the
// markers removed; plain text carries no other formatting.
func LoadText(content string) []types.Paragraph {
	cleaned := CleanText(content)
	if cleaned == "" {
		return []types.Paragraph{}
	}

	lines := strings.Split(cleaned, "\n")
	paragraphs := make([]types.Paragraph, 0, len(lines))
	for _, line := range lines {
		p := types.Paragraph{Text: line}
		if heading, ok := markdownHeading(line); ok {
			if heading == "" {
				continue
			}
			p.Text = heading
			p.IsHeader = true
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs
}

// markdownHeading reports whether line is an ATX heading: one to six '#'
// followed by a space or the end of the line. "#1 ranked" is plain text.
func markdownHeading(line string) (string, bool) {
	rest := strings.TrimLeft(line, "#")
	level := len(line) - len(rest)
	if level == 0 || level > 6 {
		return "", false
	}
	if rest != "" && rest[0] != ' ' {
		return "", false
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rest), "#")), true
}

// Package testutil builds in-memory résumé fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
)

// Run is one formatted text run of a fixture paragraph.
// Size is the raw w:sz attribute (half-points); empty means no size element.
type Run struct {
	Text string
	Bold bool
	Size string
}

// Para is one fixture paragraph made of runs.
type Para struct {
	Runs []Run
}

// Plain returns an unformatted paragraph.
func Plain(text string) Para {
	return Para{Runs: []Run{{Text: text}}}
}

// Bold returns a paragraph with a single bold run.
func Bold(text string) Para {
	return Para{Runs: []Run{{Text: text, Bold: true}}}
}

// Sized returns a paragraph whose only run has the given w:sz value.
func Sized(text, halfPoints string) Para {
	return Para{Runs: []Run{{Text: text, Size: halfPoints}}}
}

// PlainParas converts lines into unformatted paragraphs.
func PlainParas(lines ...string) []Para {
	paras := make([]Para, 0, len(lines))
	for _, line := range lines {
		paras = append(paras, Plain(line))
	}
	return paras
}

// DocumentXML renders the paragraphs as a WordprocessingML body.
func DocumentXML(paras []Para) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paras {
		sb.WriteString("<w:p>")
		for _, r := range p.Runs {
			sb.WriteString("<w:r>")
			if r.Bold || r.Size != "" {
				sb.WriteString("<w:rPr>")
				if r.Bold {
					sb.WriteString("<w:b/>")
				}
				if r.Size != "" {
					fmt.Fprintf(&sb, `<w:sz w:val="%s"/>`, escape(r.Size))
				}
				sb.WriteString("</w:rPr>")
			}
			fmt.Fprintf(&sb, `<w:t xml:space="preserve">%s</w:t>`, escape(r.Text))
			sb.WriteString("</w:r>")
		}
		sb.WriteString("</w:p>")
	}
	sb.WriteString("</w:body></w:document>")
	return sb.String()
}

// BuildDocx packages the paragraphs as a minimal .docx file.
func BuildDocx(t testing.TB, paras ...Para) []byte {
	t.Helper()
	return BuildDocxFromXML(t, DocumentXML(paras))
}

// BuildDocxFromXML packages a raw document.xml body as a .docx file.
func BuildDocxFromXML(t testing.TB, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"word/document.xml", documentXML},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("create %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			t.Fatalf("write %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// BuildZip packages arbitrary entries, for fixtures that are zips but not documents.
func BuildZip(t testing.TB, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func escape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	documentPart = "word/document.xml"

	// maxDocumentXMLBytes caps how much of document.xml is decoded.
	maxDocumentXMLBytes = 64 << 20
)

// paragraphState accumulates one w:p while the decoder walks its runs. Run
// state lives here so a text box nested inside a run leaves the outer run
// intact.
type paragraphState struct {
	text    strings.Builder
	bold    bool
	maxSize *float64

	run        *runState
	inRunProps bool
	inText     bool
}

// runState accumulates one w:r
type runState struct {
	bold    bool
	size    *float64
	hasText bool
}

// LoadDocx reads the paragraphs of an OOXML word-processing document held in memory.
// Empty and whitespace-only paragraphs are skipped. Any failure to open the
// container or decode word/document.xml is returned as an *UnreadableError.
func LoadDocx(data []byte) ([]types.Paragraph, error) {
	if len(data) == 0 {
		return nil, &UnreadableError{Message: "empty document"}
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &UnreadableError{Message: "not a zip container", Cause: err}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, documentPart) {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, &UnreadableError{Message: documentPart + " not found in archive"}
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, &UnreadableError{Message: "open " + documentPart, Cause: err}
	}
	defer func() { _ = rc.Close() }()

	paragraphs, err := decodeDocumentXML(io.LimitReader(rc, maxDocumentXMLBytes))
	if err != nil {
		return nil, &UnreadableError{Message: "decode " + documentPart, Cause: err}
	}
	return paragraphs, nil
}

// decodeDocumentXML walks the WordprocessingML body token by token.
// Paragraphs nested inside text boxes are emitted as their own paragraphs,
// ahead of the paragraph that anchors them. The mc:Fallback copy of
// alternate content is skipped so each text box is read once.
func decodeDocumentXML(r io.Reader) ([]types.Paragraph, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = true

	paragraphs := []types.Paragraph{}
	var stack []*paragraphState
	top := func() *paragraphState {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Fallback" {
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			if t.Name.Local == "p" {
				stack = append(stack, &paragraphState{})
				continue
			}
			current := top()
			if current == nil {
				continue
			}
			switch t.Name.Local {
			case "r":
				current.run = &runState{}
			case "rPr":
				current.inRunProps = current.run != nil
			case "b":
				if current.inRunProps {
					current.run.bold = onOffValue(t.Attr)
				}
			case "sz":
				if current.inRunProps {
					if pts, ok := HalfPointsToPoints(attrValue(t.Attr, "val")); ok {
						current.run.size = &pts
					}
				}
			case "t":
				current.inText = current.run != nil
			case "tab", "br", "cr":
				if current.run != nil {
					current.text.WriteByte(' ')
				}
			}

		case xml.CharData:
			if current := top(); current != nil && current.inText {
				current.text.Write(t)
				if strings.TrimSpace(string(t)) != "" {
					current.run.hasText = true
				}
			}

		case xml.EndElement:
			if t.Name.Local == "p" {
				current := top()
				if current == nil {
					continue
				}
				stack = stack[:len(stack)-1]
				if p, ok := current.paragraph(); ok {
					paragraphs = append(paragraphs, p)
				}
				continue
			}
			current := top()
			if current == nil {
				continue
			}
			switch t.Name.Local {
			case "t":
				current.inText = false
			case "rPr":
				current.inRunProps = false
			case "r":
				current.endRun()
			}
		}
	}

	return paragraphs, nil
}

// endRun folds the finished run's formatting into the paragraph. Runs without
// visible text do not count.
func (s *paragraphState) endRun() {
	run := s.run
	s.run = nil
	if run == nil || !run.hasText {
		return
	}
	s.bold = s.bold || run.bold
	if run.size != nil && (s.maxSize == nil || *run.size > *s.maxSize) {
		size := *run.size
		s.maxSize = &size
	}
}

// paragraph finalizes the state, reporting false for blank paragraphs.
func (s *paragraphState) paragraph() (types.Paragraph, bool) {
	text := collapseWhitespace(s.text.String())
	if text == "" {
		return types.Paragraph{}, false
	}
	return types.Paragraph{
		Text:     text,
		IsBold:   s.bold,
		FontSize: s.maxSize,
		IsHeader: isHeaderStyle(s.bold, s.maxSize),
	}, true
}

// onOffValue reads an ST_OnOff toggle such as <w:b/> or <w:b w:val="0"/>.
func onOffValue(attrs []xml.Attr) bool {
	switch strings.ToLower(attrValue(attrs, "val")) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// collapseWhitespace trims and folds every whitespace run to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

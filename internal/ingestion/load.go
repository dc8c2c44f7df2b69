// Package ingestion turns uploaded résumé documents into ordered paragraph records.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	FormatDocx = "docx"
	FormatText = "text"
)

// DetectFormat picks the loader for a document from its name and leading bytes.
// Anything that is not plain text by extension is treated as DOCX, so that a
// corrupt upload fails as unreadable instead of being parsed as prose.
func DetectFormat(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text", ".md":
		if !IsDocx(data) {
			return FormatText
		}
	}
	return FormatDocx
}

// Load reads the paragraphs of a document held in memory.
func Load(name string, data []byte) ([]types.Paragraph, error) {
	if DetectFormat(name, data) == FormatText {
		return LoadText(string(data)), nil
	}
	return LoadDocx(data)
}

// LoadFile reads a document from disk and returns its paragraphs with metadata.
func LoadFile(path string) ([]types.Paragraph, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	name := filepath.Base(path)
	paragraphs, err := Load(name, data)
	if err != nil {
		return nil, nil, err
	}

	return paragraphs, NewMetadata(name, DetectFormat(name, data), data), nil
}

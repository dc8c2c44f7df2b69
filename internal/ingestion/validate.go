package ingestion

import (
	"archive/zip"
	"bytes"
	"strings"
)

// zipMagic is the local file header signature every OOXML package starts with.
var zipMagic = []byte("PK\x03\x04")

// IsDocx reports whether data looks like a word-processing OOXML package:
// the zip signature, a [Content_Types].xml part and at least one word/ entry.
func IsDocx(data []byte) bool {
	if !bytes.HasPrefix(data, zipMagic) {
		return false
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}

	var hasContentTypes, hasWord bool
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			hasContentTypes = true
		case strings.HasPrefix(f.Name, "word/"):
			hasWord = true
		}
	}
	return hasContentTypes && hasWord
}

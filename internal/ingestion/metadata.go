package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an ingested document
type Metadata struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`    // "docx" or "text"
	Size      int    `json:"size"`      // bytes
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename, format string, data []byte) *Metadata {
	return &Metadata{
		Filename:  filename,
		Format:    format,
		Size:      len(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(data),
	}
}

// ComputeHash computes SHA256 hash of content and returns hex string
func ComputeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}

// Package store persists parse results in PostgreSQL or SQLite.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/types"
)

// DefaultListLimit bounds ListParses when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Record is one stored parse result
type Record struct {
	ID        uuid.UUID         `json:"id"`
	Filename  string            `json:"filename"`
	Hash      string            `json:"hash"` // SHA256 of the uploaded bytes
	Result    types.ParseResult `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewRecord builds a record with a fresh id.
func NewRecord(filename, hash string, result *types.ParseResult) *Record {
	return &Record{
		ID:        uuid.New(),
		Filename:  filename,
		Hash:      hash,
		Result:    *result,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// Store is implemented by every backend
type Store interface {
	SaveParse(ctx context.Context, rec *Record) error
	// GetParse returns nil, nil when no record has the id.
	GetParse(ctx context.Context, id uuid.UUID) (*Record, error)
	// ListParses returns the newest records first.
	ListParses(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open picks the backend from the URL: postgres:// and postgresql:// use
// PostgreSQL, anything else is a SQLite path (an optional sqlite:// prefix
// is stripped, ":memory:" is accepted). The schema is migrated on open.
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return OpenPostgres(ctx, url)
	default:
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

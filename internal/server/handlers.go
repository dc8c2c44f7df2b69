package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

// multipartOverhead is allowed on top of the document size for form framing.
const multipartOverhead = 64 << 10

const maxListLimit = 500

// ParseResponse is the body of a successful POST /parse
type ParseResponse struct {
	*types.ParseResult
	ID         string          `json:"id,omitempty"`
	AIAnalysis json.RawMessage `json:"ai_analysis,omitempty"`
}

// StatusResponse represents the response for /status
type StatusResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	RulesVersion int    `json:"rules_version"`
	Storage      bool   `json:"storage"`
	Enrichment   bool   `json:"enrichment"`
}

// ParseSummary is one entry of GET /parses
type ParseSummary struct {
	ID            string               `json:"id"`
	Filename      string               `json:"filename"`
	Hash          string               `json:"hash"`
	Name          string               `json:"name"`
	SectionsFound []types.SectionLabel `json:"sections_found"`
	CreatedAt     string               `json:"created_at"`
}

// ListParsesResponse represents the response for GET /parses
type ListParsesResponse struct {
	Parses []ParseSummary `json:"parses"`
	Count  int            `json:"count"`
}

// handleParse accepts a .docx upload, as multipart field "file" or as the raw
// request body named by ?filename=, and returns the parse result.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	name, data, err := s.readUpload(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !ingestion.IsDocx(data) {
		s.writeError(w, &ErrInvalidDocument{})
		return
	}

	start := time.Now()
	result, err := s.parser.ParseDocument(name, data)
	if err != nil {
		logger.Warn().Str("file", name).Err(err).Msg("parse failed")
		s.writeError(w, err)
		return
	}
	logger.Info().
		Str("file", name).
		Int("size", len(data)).
		Dur("duration", time.Since(start)).
		Int("sections", len(result.Metadata.SectionsFound)).
		Msg("parsed upload")

	resp := ParseResponse{ParseResult: result}

	if s.store != nil {
		rec := store.NewRecord(name, ingestion.ComputeHash(data), result)
		if err := s.store.SaveParse(r.Context(), rec); err != nil {
			logger.Warn().Str("file", name).Err(err).Msg("failed to save parse result")
		} else {
			resp.ID = rec.ID.String()
		}
	}

	if s.enricher != nil {
		analysis, err := s.enricher.Enrich(r.Context(), result)
		if err != nil {
			logger.Warn().Str("file", name).Err(err).Msg("enrichment failed")
		} else if len(analysis) > 0 {
			resp.AIAnalysis = analysis
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// readUpload returns the uploaded file name and contents.
func (s *Server) readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.readMultipart(r)
	}

	name := r.URL.Query().Get("filename")
	if name == "" {
		return "", nil, &ErrValidation{Field: "file", Message: "No file uploaded"}
	}
	if err := checkExtension(name); err != nil {
		return "", nil, err
	}
	data, err := s.readLimited(r.Body)
	return filepath.Base(name), data, err
}

func (s *Server) readMultipart(r *http.Request) (string, []byte, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, &ErrValidation{Field: "file", Message: "malformed multipart body"}
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, &ErrValidation{Field: "file", Message: "No file uploaded"}
		}
		if err != nil {
			return "", nil, uploadError(err, s.maxUpload)
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		name := part.FileName()
		if name == "" {
			return "", nil, &ErrValidation{Field: "file", Message: "No file selected"}
		}
		if err := checkExtension(name); err != nil {
			return "", nil, err
		}
		data, err := s.readLimited(part)
		return filepath.Base(name), data, err
	}
}

// readLimited reads at most maxUpload bytes, failing with ErrTooLarge beyond that.
func (s *Server) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return nil, uploadError(err, s.maxUpload)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, &ErrTooLarge{Limit: s.maxUpload}
	}
	return data, nil
}

func uploadError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &ErrTooLarge{Limit: limit}
	}
	return &ErrValidation{Field: "file", Message: "failed to read upload: " + err.Error()}
}

func checkExtension(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		return &ErrValidation{Field: "file", Message: "Please upload a .docx file"}
	}
	return nil
}

// handleStatus reports service status
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, StatusResponse{
		Status:       "operational",
		Version:      Version,
		RulesVersion: s.parser.Rules().Version,
		Storage:      s.store != nil,
		Enrichment:   s.enricher != nil,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListParses lists stored parse results, newest first
func (s *Server) handleListParses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStoreDisabled{})
		return
	}

	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be an integer between 1 and 500"})
			return
		}
		limit = n
	}

	records, err := s.store.ListParses(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := ListParsesResponse{Parses: make([]ParseSummary, 0, len(records)), Count: len(records)}
	for _, rec := range records {
		resp.Parses = append(resp.Parses, ParseSummary{
			ID:            rec.ID.String(),
			Filename:      rec.Filename,
			Hash:          rec.Hash,
			Name:          rec.Result.Contact.Name,
			SectionsFound: rec.Result.Metadata.SectionsFound,
			CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetParse returns one stored parse record
func (s *Server) handleGetParse(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStoreDisabled{})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid UUID"})
		return
	}

	rec, err := s.store.GetParse(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrParseNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

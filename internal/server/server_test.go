package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/testutil"
	"github.com/jonathan/resume-parser/internal/types"
)

type fakeEnricher struct {
	out json.RawMessage
	err error
}

func (f *fakeEnricher) Enrich(_ context.Context, _ *types.ParseResult) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func fixedParser(t *testing.T) *parsing.Parser {
	t.Helper()
	p, err := parsing.New(parsing.WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return p
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Parser == nil {
		cfg.Parser = fixedParser(t)
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func resumeDocx(t *testing.T) []byte {
	t.Helper()
	return testutil.BuildDocx(t,
		testutil.Bold("John Doe Smith"),
		testutil.Plain("123 Main St, New York, NY"),
		testutil.Plain("john.doe@example.com"),
		testutil.Plain("(555) 123-4567"),
		testutil.Plain("linkedin.com/in/johndoe"),
		testutil.Sized("Skills", "28"),
		testutil.Plain("Go, SQL"),
	)
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("note", "ignored")
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

func TestHandleParse_Multipart(t *testing.T) {
	s := newTestServer(t, Config{})

	w := serve(s, multipartRequest(t, "file", "john.docx", resumeDocx(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp, "id")
	assert.NotContains(t, resp, "ai_analysis")

	contact := resp["contact"].(map[string]any)
	assert.Equal(t, "John Doe Smith", contact["name"])
	assert.Equal(t, "5551234567", contact["phone"])

	assert.NoError(t, schemas.ValidateParseResultJSON(w.Body.Bytes()))
}

func TestHandleParse_RawBody(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/parse?filename=john.docx", bytes.NewReader(resumeDocx(t)))
	req.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w := serve(s, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.ParseResult)
	assert.Equal(t, "john.doe@example.com", resp.Contact.Email)
	assert.Equal(t, []types.SectionLabel{types.LabelSkills}, resp.Metadata.SectionsFound)
}

func TestHandleParse_Rejections(t *testing.T) {
	valid := resumeDocx(t)
	notDocx := testutil.BuildZip(t, map[string]string{"hello.txt": "hi"})

	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		status  int
		message string
	}{
		{
			name:    "no file field",
			req:     func(t *testing.T) *http.Request { return multipartRequest(t, "", "", nil) },
			status:  http.StatusBadRequest,
			message: "No file uploaded",
		},
		{
			name:    "empty filename",
			req:     func(t *testing.T) *http.Request { return multipartRequest(t, "file", "", valid) },
			status:  http.StatusBadRequest,
			message: "No file selected",
		},
		{
			name:    "wrong extension",
			req:     func(t *testing.T) *http.Request { return multipartRequest(t, "file", "resume.pdf", valid) },
			status:  http.StatusBadRequest,
			message: "Please upload a .docx file",
		},
		{
			name:    "not a zip",
			req:     func(t *testing.T) *http.Request { return multipartRequest(t, "file", "resume.docx", []byte("plain text")) },
			status:  http.StatusBadRequest,
			message: "Invalid DOCX file",
		},
		{
			name:    "zip without word parts",
			req:     func(t *testing.T) *http.Request { return multipartRequest(t, "file", "resume.docx", notDocx) },
			status:  http.StatusBadRequest,
			message: "Invalid DOCX file",
		},
		{
			name: "raw body without filename",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/parse", bytes.NewReader(valid))
			},
			status:  http.StatusBadRequest,
			message: "No file uploaded",
		},
	}

	s := newTestServer(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, tt.req(t))
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeError(t, w), tt.message)
		})
	}
}

func TestHandleParse_TooLarge(t *testing.T) {
	s := newTestServer(t, Config{MaxUploadBytes: 1024})

	big := bytes.Repeat([]byte("x"), 4096)

	w := serve(s, multipartRequest(t, "file", "big.docx", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decodeError(t, w), "File too large")

	req := httptest.NewRequest(http.MethodPost, "/parse?filename=big.docx", bytes.NewReader(big))
	w = serve(s, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleParse_Unreadable(t *testing.T) {
	s := newTestServer(t, Config{})

	broken := testutil.BuildZip(t, map[string]string{
		"[Content_Types].xml": "<Types/>",
		"word/document.xml":   "<w:document><w:body><w:p>",
	})
	w := serve(s, multipartRequest(t, "file", "broken.docx", broken))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decodeError(t, w), "document unreadable")
}

func TestHandleParse_StoresAndServesHistory(t *testing.T) {
	st := newMemoryStore(t)
	s := newTestServer(t, Config{Store: st})

	w := serve(s, multipartRequest(t, "file", "john.docx", resumeDocx(t)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/parses/"+id.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	var rec store.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "john.docx", rec.Filename)
	assert.Equal(t, "John Doe Smith", rec.Result.Contact.Name)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/parses?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list ListParsesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, id.String(), list.Parses[0].ID)
	assert.Equal(t, "John Doe Smith", list.Parses[0].Name)
}

func TestHandleGetParse_Errors(t *testing.T) {
	s := newTestServer(t, Config{Store: newMemoryStore(t)})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/parses/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/parses/"+uuid.New().String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/parses?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory_WithoutStore(t *testing.T) {
	s := newTestServer(t, Config{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/parses", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/parses/"+uuid.New().String(), nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestHandleParse_Enrichment(t *testing.T) {
	s := newTestServer(t, Config{Enricher: &fakeEnricher{out: json.RawMessage(`{"summary":"strong backend profile"}`)}})

	w := serve(s, multipartRequest(t, "file", "john.docx", resumeDocx(t)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]any{"summary": "strong backend profile"}, resp["ai_analysis"])
	assert.NoError(t, schemas.ValidateParseResultJSON(w.Body.Bytes()))
}

func TestHandleParse_EnrichmentFailureDegrades(t *testing.T) {
	s := newTestServer(t, Config{Enricher: &fakeEnricher{err: errors.New("model unavailable")}})

	w := serve(s, multipartRequest(t, "file", "john.docx", resumeDocx(t)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "ai_analysis")
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t, Config{Store: newMemoryStore(t)})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "operational", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.Equal(t, 1, resp.RulesVersion)
	assert.True(t, resp.Storage)
	assert.False(t, resp.Enrichment)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, Config{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, Config{})

	w := serve(s, httptest.NewRequest(http.MethodOptions, "/parse", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Config{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/parse", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRateLimit_Parse(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/parse", Method: http.MethodPost, Limit: 2, Window: time.Hour},
		},
	}})
	data := resumeDocx(t)

	for i := 0; i < 2; i++ {
		w := serve(s, multipartRequest(t, "file", "john.docx", data))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(s, multipartRequest(t, "file", "john.docx", data))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeError(t, w))

	// other endpoints are unaffected
	w = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", extractClientID(req))

	req.RemoteAddr = "bogus"
	assert.Equal(t, "bogus", extractClientID(req))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", &ErrValidation{Field: "file", Message: "x"}, http.StatusBadRequest},
		{"invalid document", &ErrInvalidDocument{}, http.StatusBadRequest},
		{"too large", &ErrTooLarge{Limit: 5 << 20}, http.StatusRequestEntityTooLarge},
		{"not found", &ErrParseNotFound{ID: uuid.New()}, http.StatusNotFound},
		{"store disabled", &ErrStoreDisabled{}, http.StatusNotImplemented},
		{"unreadable wrapped", &parsing.ParseError{Message: "failed", Cause: fakeUnreadable()}, http.StatusUnprocessableEntity},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error: limit - bad", (&ErrValidation{Field: "limit", Message: "bad"}).Error())
	assert.Equal(t, "File too large. Maximum size is 5.0MB", (&ErrTooLarge{Limit: 5 << 20}).Error())
	assert.Equal(t, "Invalid DOCX file", (&ErrInvalidDocument{}).Error())
	assert.True(t, strings.HasPrefix((&ErrParseNotFound{ID: uuid.Nil}).Error(), "parse not found: "))
}

func fakeUnreadable() error {
	return &ingestion.UnreadableError{Message: "not a zip container"}
}

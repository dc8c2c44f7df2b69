package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/types"
)

func sampleResult(name string) *types.ParseResult {
	contact := types.EmptyContactInfo()
	contact.Name = name
	contact.Email = "jane@example.com"
	return &types.ParseResult{
		Contact: contact,
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "B.S. in Computer Science", GraduationYear: "2019"},
		},
		Experience: []types.ExperienceEntry{},
		Skills:     types.NewSkillSet(),
		Metadata: types.ParseMetadata{
			SectionsFound: []types.SectionLabel{types.LabelContact, types.LabelEducation},
			ParsedAt:      "2024-03-01T17:30:00Z",
			MissingFields: contact.MissingFields(),
			Headers:       []types.HeaderMatch{},
		},
	}
}

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("resume.docx", ingestion.ComputeHash([]byte("abc")), sampleResult("Jane Doe"))

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, "resume.docx", rec.Filename)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", rec.Hash)
	assert.Equal(t, "Jane Doe", rec.Result.Contact.Name)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	rec := NewRecord("resume.docx", ingestion.ComputeHash([]byte("doc")), sampleResult("Jane Doe"))
	require.NoError(t, s.SaveParse(ctx, rec))

	got, err := s.GetParse(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Filename, got.Filename)
	assert.Equal(t, rec.Hash, got.Hash)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.Result, got.Result)
}

func TestSQLiteStore_GetMissingReturnsNil(t *testing.T) {
	s := openMemory(t)

	got, err := s.GetParse(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_SaveReplacesSameID(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	rec := NewRecord("resume.docx", ingestion.ComputeHash([]byte("doc")), sampleResult("Jane Doe"))
	require.NoError(t, s.SaveParse(ctx, rec))

	rec.Result.Contact.Name = "Jane Q. Doe"
	require.NoError(t, s.SaveParse(ctx, rec))

	got, err := s.GetParse(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Q. Doe", got.Result.Contact.Name)

	all, err := s.ListParses(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"First", "Second", "Third"}
	for i, name := range names {
		rec := NewRecord(name+".docx", ingestion.ComputeHash([]byte(name)), sampleResult(name))
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.SaveParse(ctx, rec))
	}

	all, err := s.ListParses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Third.docx", all[0].Filename)
	assert.Equal(t, "Second.docx", all[1].Filename)
	assert.Equal(t, "First.docx", all[2].Filename)

	limited, err := s.ListParses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "Third.docx", limited[0].Filename)
}

func TestSQLiteStore_ListEmpty(t *testing.T) {
	s := openMemory(t)

	all, err := s.ListParses(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestOpen_Dispatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "parses.db")

	s, err := Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	_, ok := s.(*SQLiteStore)
	assert.True(t, ok)

	rec := NewRecord("resume.docx", ingestion.ComputeHash([]byte("doc")), sampleResult("Jane Doe"))
	require.NoError(t, s.SaveParse(ctx, rec))
	require.NoError(t, s.Close())

	// reopening the file keeps the data
	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetParse(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Doe", got.Result.Contact.Name)
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenPostgres_BadURL(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "postgres://%zz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, normalizeLimit(0))
	assert.Equal(t, DefaultListLimit, normalizeLimit(-3))
	assert.Equal(t, 7, normalizeLimit(7))
}

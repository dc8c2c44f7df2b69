package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/types"
)

func validResult() types.ParseResult {
	return types.ParseResult{
		Contact: types.ContactInfo{
			Name:     "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "5551234567",
			Location: "Austin, TX",
			LinkedIn: types.NoInformation,
		},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "B.S.", GraduationYear: "2015"},
		},
		Experience: []types.ExperienceEntry{
			{Company: "Acme Corp", Position: "Engineer", Duration: types.NoInformation, Description: []string{"Built it"}, Achievements: []string{}},
		},
		Skills: types.SkillSet{Technical: []string{"Go"}, Soft: []string{}, Languages: []string{}, Tools: []string{}},
		Metadata: types.ParseMetadata{
			SectionsFound:  []types.SectionLabel{types.LabelEducation, types.LabelExperience},
			ParsedAt:       "2024-03-01T12:00:00Z",
			MissingFields:  []string{"linkedin"},
			ParagraphCount: 7,
			Headers:        []types.HeaderMatch{{Text: "Education", Label: types.LabelEducation, Rule: "education"}},
		},
	}
}

func TestValidateParseResult_Valid(t *testing.T) {
	assert.NoError(t, ValidateParseResult(validResult()))
}

func TestValidateParseResult_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.ParseResult)
	}{
		{name: "empty email", mutate: func(r *types.ParseResult) { r.Contact.Email = "" }},
		{name: "malformed email", mutate: func(r *types.ParseResult) { r.Contact.Email = "jane@localhost" }},
		{name: "short phone", mutate: func(r *types.ParseResult) { r.Contact.Phone = "12345" }},
		{name: "null skills list", mutate: func(r *types.ParseResult) { r.Skills.Tools = nil }},
		{name: "duplicate skill", mutate: func(r *types.ParseResult) { r.Skills.Technical = []string{"Go", "Go"} }},
		{name: "null education", mutate: func(r *types.ParseResult) { r.Education = nil }},
		{name: "unknown label", mutate: func(r *types.ParseResult) { r.Metadata.SectionsFound = []types.SectionLabel{"projects"} }},
		{name: "bad timestamp", mutate: func(r *types.ParseResult) { r.Metadata.ParsedAt = "yesterday" }},
		{name: "bad year", mutate: func(r *types.ParseResult) { r.Education[0].GraduationYear = "15" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResult()
			tt.mutate(&r)

			err := ValidateParseResult(r)
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateParseResultJSON_AllowsEnrichmentAndID(t *testing.T) {
	data, err := json.Marshal(validResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	doc["id"] = "0b6f0c64-8f0e-4a8e-9a51-0d1f6f4a3c11"
	doc["ai_analysis"] = map[string]any{"score": 7}

	withExtras, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NoError(t, ValidateParseResultJSON(withExtras))
}

func TestValidateParseResultFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	data, err := json.Marshal(validResult())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(good, data, 0o600))
	assert.NoError(t, ValidateParseResultFile(good))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"contact": {}}`), 0o600))
	err = ValidateParseResultFile(bad)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	err = ValidateParseResultFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseResultSchema_IsValidJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(ParseResultSchema()), &doc))
	assert.Equal(t, "ParseResult", doc["title"])
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "(string schema)", loadErr.Path)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "contact.email", Message: "is required"},
			{Field: "skills", Message: "must be an object"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "contact.email")
	assert.Contains(t, errorMsg, "skills")
}

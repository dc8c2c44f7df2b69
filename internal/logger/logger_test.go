package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: FormatJSON, Out: &buf})

	Info().Str("file", "resume.docx").Int("sections", 3).Msg("parsed")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "info", event["level"])
	assert.Equal(t, "parsed", event["message"])
	assert.Equal(t, "resume.docx", event["file"])
	assert.EqualValues(t, 3, event["sections"])
	assert.Contains(t, event, "time")
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Out: &buf})

	Debug().Msg("hidden")
	Info().Msg("hidden")
	Warn().Msg("shown")
	Error().Msg("shown too")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestInit_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "chatty", Out: &buf})

	Debug().Msg("hidden")
	Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInit_Pretty(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: FormatPretty, Out: &buf})

	Info().Str("path", "/parse").Msg("request")

	out := buf.String()
	assert.Contains(t, out, "request")
	assert.Contains(t, out, "path=")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestInit_ReportCaller(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", ReportCaller: true, Out: &buf})

	Info().Msg("with caller")
	assert.Contains(t, buf.String(), `"caller"`)
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Out: &buf})

	ctx := WithContext(context.Background())
	Ctx(ctx).Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf", input: "Jane Doe\r\nEngineer", want: "Jane Doe\nEngineer"},
		{name: "bare cr", input: "Jane Doe\rEngineer", want: "Jane Doe\nEngineer"},
		{name: "blank lines dropped", input: "A\n\n  \n\tB", want: "A\nB"},
		{name: "inner whitespace folded", input: "Go,   SQL\t Docker ", want: "Go, SQL Docker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestLoadText(t *testing.T) {
	paragraphs := LoadText("Jane Doe\n\n# Experience\nAcme Corp\n##\n")

	require.Len(t, paragraphs, 3)
	assert.Equal(t, "Jane Doe", paragraphs[0].Text)
	assert.False(t, paragraphs[0].IsHeader)

	assert.Equal(t, "Experience", paragraphs[1].Text)
	assert.True(t, paragraphs[1].IsHeader)
	assert.False(t, paragraphs[1].IsBold)
	assert.Nil(t, paragraphs[1].FontSize)

	assert.Equal(t, "Acme Corp", paragraphs[2].Text)
}

func TestLoadText_HashWithoutSpaceIsText(t *testing.T) {
	paragraphs := LoadText("#1 ranked sales rep\n####### seven\n## Skills ##")

	require.Len(t, paragraphs, 3)
	assert.Equal(t, "#1 ranked sales rep", paragraphs[0].Text)
	assert.False(t, paragraphs[0].IsHeader)
	assert.Equal(t, "####### seven", paragraphs[1].Text)
	assert.False(t, paragraphs[1].IsHeader)
	assert.Equal(t, "Skills", paragraphs[2].Text)
	assert.True(t, paragraphs[2].IsHeader)
}

func TestLoadText_Empty(t *testing.T) {
	paragraphs := LoadText(" \n\n")
	assert.NotNil(t, paragraphs)
	assert.Empty(t, paragraphs)
}

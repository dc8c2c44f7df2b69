package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHalfPointsToPoints(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{name: "twelve point", raw: "24", want: 12, wantOK: true},
		{name: "odd half points", raw: "29", want: 14.5, wantOK: true},
		{name: "surrounding spaces", raw: " 32 ", want: 16, wantOK: true},
		{name: "decimal value", raw: "21.0", want: 10.5, wantOK: true},
		{name: "empty", raw: "", wantOK: false},
		{name: "not a number", raw: "large", wantOK: false},
		{name: "zero", raw: "0", wantOK: false},
		{name: "negative", raw: "-4", wantOK: false},
		{name: "beyond word maximum", raw: "99999", wantOK: false},
		{name: "nan", raw: "NaN", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HalfPointsToPoints(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.0001)
			} else {
				assert.Zero(t, got)
			}
		})
	}
}

func TestIsHeaderStyle(t *testing.T) {
	small := 11.0
	threshold := HeaderFontThreshold
	large := 14.0

	assert.True(t, isHeaderStyle(true, nil))
	assert.True(t, isHeaderStyle(false, &large))
	assert.False(t, isHeaderStyle(false, &threshold), "threshold itself is not a header")
	assert.False(t, isHeaderStyle(false, &small))
	assert.False(t, isHeaderStyle(false, nil))
}

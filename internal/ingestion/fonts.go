package ingestion

import (
	"math"
	"strconv"
	"strings"
)

const (
	// HeaderFontThreshold is the size in points a paragraph must exceed to count as a header.
	HeaderFontThreshold = 12.0

	// maxFontPoints is the largest size Word accepts (w:sz 3276 half-points).
	maxFontPoints = 1638.0
)

// HalfPointsToPoints converts an OOXML w:sz attribute, expressed in half-points,
// to points. Values that are missing, non-numeric, non-positive or beyond what
// Word can store are reported as unknown (ok == false), never as zero.
func HalfPointsToPoints(raw string) (points float64, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	halfPoints, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(halfPoints) || math.IsInf(halfPoints, 0) {
		return 0, false
	}

	points = halfPoints / 2
	if points <= 0 || points > maxFontPoints {
		return 0, false
	}
	return points, true
}

// isHeaderStyle derives the header flag from the paragraph's formatting.
func isHeaderStyle(bold bool, fontSize *float64) bool {
	if bold {
		return true
	}
	return fontSize != nil && *fontSize > HeaderFontThreshold
}

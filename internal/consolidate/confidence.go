package consolidate

import (
	"math"
	"strconv"
	"strings"
)

// Categorical confidence buckets emitted by some pipeline models. The
// Spanish labels come from the classification model's native output.
var confidenceBuckets = map[string]float64{
	"alta":   0.90,
	"high":   0.90,
	"media":  0.75,
	"medium": 0.75,
	"baja":   0.50,
	"low":    0.50,
}

// NormalizeConfidence maps an arbitrary confidence signal to a probability in
// [0,1]. The second return value is false when the signal is absent or
// unparsable ("unknown confidence" — distinct from zero). Numeric values
// above 1 are treated as 0-100 percentages. The function never panics;
// malformed input always yields (0, false).
func NormalizeConfidence(raw any) (float64, bool) {
	if raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return normalizeNumeric(v)
	case float32:
		return normalizeNumeric(float64(v))
	case int:
		return normalizeNumeric(float64(v))
	case int64:
		return normalizeNumeric(float64(v))
	case string:
		return normalizeString(v)
	}
	return 0, false
}

func normalizeNumeric(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v > 1 {
		return v / 100, true
	}
	// Values <= 1 pass through unchanged, including 0 and negatives;
	// range validation is the caller's concern.
	return v, true
}

func normalizeString(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if bucket, ok := confidenceBuckets[s]; ok {
		return bucket, true
	}

	// Strip everything except digits and decimal separators, then treat
	// comma as a decimal point ("0,82" and "82%" both parse).
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			b.WriteRune('.')
		}
	}
	numeric, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return normalizeNumeric(numeric)
}

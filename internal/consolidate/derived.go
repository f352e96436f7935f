package consolidate

import (
	"fmt"
	"time"

	"propfolio/internal/domain"
)

// derivedConfidence is assigned to rule-computed fields: high, but below a
// directly extracted perfect score.
const derivedConfidence = 0.95

// DerivedRule computes an additional field from already-consolidated ones.
// Derive must be a pure function of the fields map; it returns false when the
// rule does not apply.
type DerivedRule struct {
	Field  string
	Derive func(fields map[string]domain.ConsolidatedField) (domain.ConsolidatedField, bool)
}

// DefaultRules returns the built-in derivation rules, evaluated in order.
func DefaultRules() []DerivedRule {
	return []DerivedRule{
		{Field: "first_payment_date", Derive: deriveFirstPaymentDate},
	}
}

// ApplyDerivedRules evaluates rules against a consolidated record and returns
// a new record with any derived fields added. Fields already present are
// never overwritten, so rule evaluation order only matters for rules that
// read each other's output. The input record is not mutated.
func ApplyDerivedRules(rec *domain.ConsolidatedRecord, rules []DerivedRule) *domain.ConsolidatedRecord {
	out := &domain.ConsolidatedRecord{
		Fields:      make(map[string]domain.ConsolidatedField, len(rec.Fields)+len(rules)),
		FormMapping: make(map[string]any, len(rec.FormMapping)+len(rules)),
		Metadata:    rec.Metadata,
		Errors:      rec.Errors,
	}
	for name, field := range rec.Fields {
		out.Fields[name] = field
	}
	for name, value := range rec.FormMapping {
		out.FormMapping[name] = value
	}

	for _, rule := range rules {
		if _, present := out.Fields[rule.Field]; present {
			continue
		}
		field, ok := rule.Derive(out.Fields)
		if !ok {
			continue
		}
		out.Fields[rule.Field] = field
		out.FormMapping[rule.Field] = field.Value
		out.Metadata.TotalFields = len(out.Fields)
	}
	return out
}

// deriveFirstPaymentDate computes the first mortgage payment date as one
// calendar month after the closing date.
func deriveFirstPaymentDate(fields map[string]domain.ConsolidatedField) (domain.ConsolidatedField, bool) {
	closing, ok := fields["closing_date"]
	if !ok {
		return domain.ConsolidatedField{}, false
	}
	closingDate, err := parseDate(closing.Value)
	if err != nil {
		return domain.ConsolidatedField{}, false
	}

	firstPayment := addCalendarMonth(closingDate)
	return domain.ConsolidatedField{
		Value:        firstPayment.Format("2006-01-02"),
		Confidence:   derivedConfidence,
		Source:       "auto-calculated from closing_date",
		Alternatives: []domain.Alternative{},
	}, true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"January 2, 2006",
}

func parseDate(value any) (time.Time, error) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("not a date string: %v", value)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// addCalendarMonth advances one calendar month keeping the day-of-month,
// clamped to the last valid day when the target month is shorter
// (2024-01-31 -> 2024-02-29). time.AddDate normalizes overflow instead of
// clamping, so the arithmetic is explicit.
func addCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

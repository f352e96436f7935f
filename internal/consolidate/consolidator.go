package consolidate

import (
	"fmt"
	"sort"
	"time"

	"propfolio/internal/domain"
)

// DefaultMinConfidence is the default admission threshold. It is deliberately
// low so that a single low-confidence source document still populates fields
// instead of yielding an empty record.
const DefaultMinConfidence = 0.5

// DefaultConfidenceKeys lists the known confidence-key aliases probed on a
// field payload, in priority order. New pipeline output shapes are supported
// by editing this table (or passing Options.ConfidenceKeys) rather than
// scattering lookups through the code.
var DefaultConfidenceKeys = []string{
	"confidence",
	"confidence_label",
	"confidenceScore",
	"confidence_pct",
	"confidence_percent",
	"confidencePercent",
	"confidenceValue",
	"score",
}

// Options configures a Consolidator. An empty ConfidenceKeys and a
// non-positive MinConfidence select the package defaults; a zero floor is
// not configurable, since unscored candidates are admitted at exactly the
// floor and a floor of 0 would make every field win regardless of signal.
type Options struct {
	MinConfidence  float64
	ConfidenceKeys []string
}

// Consolidator merges per-document extraction results into a single
// consolidated record. It holds no mutable state; Consolidate is a pure
// function of its input and is safe to re-run any number of times.
type Consolidator struct {
	minConfidence  float64
	confidenceKeys []string
}

// New creates a Consolidator.
func New(opts Options) *Consolidator {
	min := opts.MinConfidence
	if min <= 0 {
		min = DefaultMinConfidence
	}
	keys := opts.ConfidenceKeys
	if len(keys) == 0 {
		keys = DefaultConfidenceKeys
	}
	return &Consolidator{minConfidence: min, confidenceKeys: keys}
}

// MinConfidence returns the admission threshold in effect.
func (c *Consolidator) MinConfidence() float64 {
	return c.minConfidence
}

// BuildCandidates walks one document's field map and produces a candidate per
// field whose value could be resolved. A field with no recognizable
// confidence signal is admitted at exactly the minimum admission threshold:
// unscored fields are neither silently dropped nor auto-promoted. This is the
// single substitution policy, applied here and nowhere else.
func (c *Consolidator) BuildCandidates(doc *domain.DocumentResult) []domain.Candidate {
	if doc == nil || len(doc.Fields) == 0 {
		return nil
	}

	candidates := make([]domain.Candidate, 0, len(doc.Fields))
	for fieldName, payload := range doc.Fields {
		value := ResolveFieldValue(payload)
		if value == nil {
			continue
		}

		confidence, known := c.resolveConfidence(payload)
		if !known {
			confidence = c.minConfidence
		}

		candidates = append(candidates, domain.Candidate{
			Field:        fieldName,
			Value:        value,
			Confidence:   confidence,
			Source:       doc.Filename,
			DocumentType: doc.DocumentType,
		})
	}
	return candidates
}

// resolveConfidence probes the configured alias keys in order; the first key
// present on the payload wins, even if it then fails to normalize.
func (c *Consolidator) resolveConfidence(payload domain.FieldPayload) (float64, bool) {
	for _, key := range c.confidenceKeys {
		raw, ok := payload[key]
		if !ok || raw == nil {
			continue
		}
		return NormalizeConfidence(raw)
	}
	return 0, false
}

// Consolidate merges candidate lists from all documents into one record.
// Candidates below the admission threshold are dropped; for each surviving
// field the highest-confidence candidate wins, ties broken by first-seen
// document order, and the rest become ranked alternatives. A field whose
// candidates all fall below threshold is absent from the output entirely —
// absence signals "insufficient evidence" so downstream form-filling leaves
// the field blank instead of showing a low-confidence guess.
func (c *Consolidator) Consolidate(docs []domain.DocumentResult) *domain.ConsolidatedRecord {
	byField := make(map[string][]domain.Candidate)
	fieldOrder := make([]string, 0)
	documentsProcessed := make([]string, 0, len(docs))

	for i := range docs {
		doc := &docs[i]
		documentsProcessed = append(documentsProcessed, doc.Filename)
		for _, cand := range c.BuildCandidates(doc) {
			if cand.Confidence < c.minConfidence {
				continue
			}
			if _, seen := byField[cand.Field]; !seen {
				fieldOrder = append(fieldOrder, cand.Field)
			}
			byField[cand.Field] = append(byField[cand.Field], cand)
		}
	}

	fields := make(map[string]domain.ConsolidatedField, len(byField))
	formMapping := make(map[string]any, len(byField))

	for _, fieldName := range fieldOrder {
		group := byField[fieldName]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Confidence > group[j].Confidence
		})

		best := group[0]
		alternatives := make([]domain.Alternative, 0, len(group)-1)
		seen := map[string]bool{candidateKey(best.Value, best.Source): true}
		for _, cand := range group[1:] {
			key := candidateKey(cand.Value, cand.Source)
			if seen[key] {
				continue
			}
			seen[key] = true
			alternatives = append(alternatives, domain.Alternative{
				Value:      cand.Value,
				Confidence: cand.Confidence,
				Source:     cand.Source,
			})
		}

		fields[fieldName] = domain.ConsolidatedField{
			Value:        best.Value,
			Confidence:   best.Confidence,
			Source:       best.Source,
			Alternatives: alternatives,
		}
		formMapping[fieldName] = best.Value
	}

	return &domain.ConsolidatedRecord{
		Fields:      fields,
		FormMapping: formMapping,
		Metadata: domain.ConsolidationMetadata{
			DocumentsProcessed: documentsProcessed,
			TotalFields:        len(fields),
			ProcessedAt:        time.Now().UTC(),
		},
	}
}

// candidateKey identifies a (value, source) pair for alternative dedupe.
func candidateKey(value any, source string) string {
	return fmt.Sprintf("%v\x00%s", value, source)
}

package consolidate

import "propfolio/internal/domain"

// BuildOutput shapes a consolidated record and its source documents into the
// final structure consumed by form-filling and persistence collaborators.
// Document summaries carry identity and counts only, never raw payloads.
func BuildOutput(rec *domain.ConsolidatedRecord, docs []domain.DocumentResult) *domain.ConsolidatedOutput {
	summaries := make([]domain.DocumentSummary, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		summaries = append(summaries, domain.DocumentSummary{
			DocumentID:   doc.DocumentID,
			Filename:     doc.Filename,
			DocumentType: doc.DocumentType,
			Confidence:   doc.ClassificationConfidence,
			FieldCount:   len(doc.Fields),
		})
	}

	return &domain.ConsolidatedOutput{
		Documents:   summaries,
		Fields:      rec.Fields,
		FormMapping: rec.FormMapping,
		Metadata:    rec.Metadata,
		Errors:      rec.Errors,
	}
}

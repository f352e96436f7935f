package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FieldPayload is one field's raw extraction payload as returned by the AI
// pipeline. Shapes vary wildly across document types (nested value objects,
// alternative keys, locale-formatted confidence strings), so it stays a loose
// map probed by the consolidate package rather than a typed struct.
type FieldPayload map[string]any

// DocumentResult is the successful extraction result for one uploaded file.
// It is created once from the pipeline response and never mutated afterward.
type DocumentResult struct {
	DocumentID               string                  `json:"document_id"`
	Filename                 string                  `json:"filename"`
	DocumentType             string                  `json:"document_type"`
	ClassificationConfidence float64                 `json:"classification_confidence"`
	Fields                   map[string]FieldPayload `json:"extracted_data"`
}

// Candidate is one document's proposed value+confidence for one field.
type Candidate struct {
	Field        string  `json:"field"`
	Value        any     `json:"value"`
	Confidence   float64 `json:"confidence"`
	Source       string  `json:"source"`
	DocumentType string  `json:"document_type,omitempty"`
}

// Alternative is a runner-up candidate kept for auditability.
type Alternative struct {
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// ConsolidatedField is the winning value for one field after cross-document
// arbitration, with its losing alternatives ordered by descending confidence.
type ConsolidatedField struct {
	Value        any           `json:"value"`
	Confidence   float64       `json:"confidence"`
	Source       string        `json:"source"`
	Alternatives []Alternative `json:"alternatives"`
}

// ConsolidationMetadata describes one consolidation run.
type ConsolidationMetadata struct {
	DocumentsProcessed []string  `json:"documents_processed"`
	TotalFields        int       `json:"total_fields"`
	ProcessedAt        time.Time `json:"processed_at"`
}

// ProcessingError records a per-document extraction failure. Failures never
// abort the batch; they ride along in the consolidated output.
type ProcessingError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// ConsolidatedRecord is the result of consolidating all accumulated
// DocumentResults. It is a pure function of the input list and is rebuilt
// from scratch on every run.
type ConsolidatedRecord struct {
	Fields      map[string]ConsolidatedField `json:"fields"`
	FormMapping map[string]any               `json:"form_mapping"`
	Metadata    ConsolidationMetadata        `json:"metadata"`
	Errors      []ProcessingError            `json:"errors,omitempty"`
}

// DocumentSummary is the per-document view in the consolidated output.
// It carries no raw payloads, only identity and counts.
type DocumentSummary struct {
	DocumentID   string  `json:"document_id"`
	Filename     string  `json:"filename"`
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	FieldCount   int     `json:"field_count"`
}

// ConsolidatedOutput is the final read-only structure handed to form-filling
// and persistence consumers.
type ConsolidatedOutput struct {
	Documents   []DocumentSummary            `json:"documents"`
	Fields      map[string]ConsolidatedField `json:"fields"`
	FormMapping map[string]any               `json:"form_mapping"`
	Metadata    ConsolidationMetadata        `json:"metadata"`
	Errors      []ProcessingError            `json:"errors,omitempty"`
}

// PropertyRecord is the persisted authoritative property record, created
// after human review of a consolidated output. Fields keeps full provenance
// (value, confidence, source, alternatives) for audit.
type PropertyRecord struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Fields      json.RawMessage `db:"fields" json:"fields"`
	FormMapping json.RawMessage `db:"form_mapping" json:"form_mapping"`
	CreatedBy   string          `db:"created_by" json:"created_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// StoredDocumentResult is a persisted per-document extraction result, linked
// to a property record once one is created from it.
type StoredDocumentResult struct {
	ID                       uuid.UUID       `db:"id" json:"id"`
	PropertyID               *uuid.UUID      `db:"property_id" json:"property_id"`
	DocumentID               string          `db:"document_id" json:"document_id"`
	Filename                 string          `db:"filename" json:"filename"`
	DocumentType             string          `db:"document_type" json:"document_type"`
	ClassificationConfidence float64         `db:"classification_confidence" json:"classification_confidence"`
	ExtractedData            json.RawMessage `db:"extracted_data" json:"extracted_data"`
	CreatedAt                time.Time       `db:"created_at" json:"created_at"`
}

// FileMeta holds metadata about an uploaded property document.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UploadedBy   string     `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"-"`
	S3Key        string     `db:"s3_key" json:"-"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrNoDocumentsProcessed    = errors.New("no documents were processed successfully")
	ErrEmptyBatch              = errors.New("batch contains no files")
	ErrInvalidConsolidatedData = errors.New("consolidated data does not match expected format")
	ErrPropertyNotFound        = errors.New("property record not found")
)

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/ingestion"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrInvalidDocument indicates an upload that is not a DOCX package
type ErrInvalidDocument struct{}

func (e *ErrInvalidDocument) Error() string {
	return "Invalid DOCX file"
}

// ErrTooLarge indicates an upload over the size limit
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("File too large. Maximum size is %.1fMB", float64(e.Limit)/1024/1024)
}

// ErrParseNotFound indicates no stored parse has the id
type ErrParseNotFound struct {
	ID uuid.UUID
}

func (e *ErrParseNotFound) Error() string {
	return fmt.Sprintf("parse not found: %s", e.ID)
}

// ErrStoreDisabled indicates a history endpoint was called without a store
type ErrStoreDisabled struct{}

func (e *ErrStoreDisabled) Error() string {
	return "result storage is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		invalid    *ErrInvalidDocument
		tooLarge   *ErrTooLarge
		notFound   *ErrParseNotFound
		disabled   *ErrStoreDisabled
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &disabled):
		return http.StatusNotImplemented
	case errors.Is(err, ingestion.ErrDocumentUnreadable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

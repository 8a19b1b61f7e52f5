package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyInProgress means the key is reserved by a request that has not finished.
	ErrIdempotencyInProgress = errors.New("idempotency key in progress")
	ErrUnsupportedEventType  = errors.New("unsupported event type")
	ErrInvalidEnvelope       = errors.New("invalid event envelope")
	// ErrDatasetNotLoaded is returned by read paths before any survey file was loaded.
	ErrDatasetNotLoaded = errors.New("survey dataset not loaded")
	// ErrSourceUnavailable means every configured CSV location failed.
	ErrSourceUnavailable = errors.New("no se pudo cargar el archivo CSV desde ninguna ruta disponible")
	ErrNoValidRecords    = errors.New("no valid data records found in CSV file")
)

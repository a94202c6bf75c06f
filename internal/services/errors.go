package services

import (
	"errors"
	"strings"
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDecode             = errors.New("decode error")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrInference          = errors.New("inference error")
	ErrUnsupportedShape   = errors.New("unsupported result shape")
	ErrNothingToExport    = errors.New("nothing to export")
	ErrValidation         = errors.New("validation error")
	ErrConfiguration      = errors.New("configuration error")
)

var markers = []error{
	ErrStorageUnavailable,
	ErrDecode,
	ErrModelUnavailable,
	ErrInference,
	ErrUnsupportedShape,
	ErrNothingToExport,
	ErrValidation,
	ErrConfiguration,
}

// ServiceError carries the marker, location, and cause of a stage failure.
type ServiceError struct {
	Marker    error
	Stage     string
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	detail := buildDetail(e.Stage, e.Operation, e.Message)
	if e.Cause != nil {
		return e.Marker.Error() + ": " + detail + ": " + e.Cause.Error()
	}
	return e.Marker.Error() + ": " + detail
}

// Unwrap exposes both the marker and the cause to errors.Is/As.
func (e *ServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Cause}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrInference
	}
	return &ServiceError{
		Marker:    marker,
		Stage:     strings.TrimSpace(stage),
		Operation: strings.TrimSpace(operation),
		Message:   strings.TrimSpace(message),
		Cause:     err,
	}
}

// ErrorDetails is the structured view of an error used for logging.
type ErrorDetails struct {
	Kind      string
	Stage     string
	Operation string
	Message   string
	Cause     error
}

// Details extracts structured fields from err. Errors that were not built by
// Wrap still report their sentinel kind when one is present in the chain.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return ErrorDetails{
			Kind:      svcErr.Marker.Error(),
			Stage:     svcErr.Stage,
			Operation: svcErr.Operation,
			Message:   err.Error(),
			Cause:     svcErr.Cause,
		}
	}
	details := ErrorDetails{Message: err.Error()}
	if marker := Kind(err); marker != nil {
		details.Kind = marker.Error()
	}
	return details
}

// Kind returns the first known sentinel in err's chain, or nil.
func Kind(err error) error {
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage != "" {
		parts = append(parts, stage)
	}
	if operation != "" {
		parts = append(parts, operation)
	}
	if message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

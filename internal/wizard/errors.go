package wizard

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidTransition    = errors.New("wizard: event is not allowed in the current step")
	ErrCatalogNotLoaded     = errors.New("wizard: catalog is not loaded")
	ErrUnknownModel         = errors.New("wizard: model is not in the catalog")
	ErrUnknownLocation      = errors.New("wizard: location is not offered by the model")
	ErrServiceNotAvailable  = errors.New("wizard: service is not available for the selected location")
	ErrBackDisabled         = errors.New("wizard: back navigation is disabled at this step")
	ErrIncompleteDateTime   = errors.New("wizard: both date and time are required")
	ErrInvalidDateTime      = errors.New("wizard: malformed date or time")
	ErrSlotNotOffered       = errors.New("wizard: time is not an available slot")
	ErrStaleResult          = errors.New("wizard: result does not match the current selection")
	ErrSubmissionInFlight   = errors.New("wizard: submission already in progress")
	ErrNothingToRetry       = errors.New("wizard: no rejected submission to retry")
	ErrInvalidClientDetails = errors.New("wizard: invalid client details")
)

// ValidationError ошибки по полям для отклоненных данных клиента
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ErrInvalidClientDetails.Error() + ": " + strings.Join(keys, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidClientDetails
}

package circulation

import (
	"errors"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// Error kinds returned by the Service. Store-level errors are the same
// values, so one errors.Is check works across layers.
var (
	ErrInvalidInput           = storage.ErrInvalidInput
	ErrStorageUnavailable     = storage.ErrUnavailable
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrHistoryInconsistency is never returned as an error. It is set on
	// Outcome.Warning when a check-in finds no open checkout record.
	ErrHistoryInconsistency = errors.New("no open checkout record")
)

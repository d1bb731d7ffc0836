package ladder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTrack is returned when an operation names a track that is
	// not part of the profile's active catalog.
	ErrInvalidTrack = errors.New("invalid track")

	// ErrMalformedEncoding is returned when a positional or record encoding
	// cannot be mapped onto a catalog.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// ErrInvalidRecord is returned when a record document does not match the
	// canonical record schema.
	ErrInvalidRecord = errors.New("invalid record")
)

// InvalidTrackError reports which track was missing from which catalog.
type InvalidTrackError struct {
	TrackID string
	Team    string
}

func (e *InvalidTrackError) Error() string {
	return fmt.Sprintf("track %q is not in the %s catalog", e.TrackID, e.Team)
}

func (e *InvalidTrackError) Unwrap() error { return ErrInvalidTrack }

// MalformedEncodingError describes why an encoding was rejected.
type MalformedEncodingError struct {
	Reason string
	Err    error
}

func (e *MalformedEncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed encoding: %s: %v", e.Reason, e.Err)
	}
	return "malformed encoding: " + e.Reason
}

func (e *MalformedEncodingError) Is(target error) bool { return target == ErrMalformedEncoding }

func (e *MalformedEncodingError) Unwrap() error { return e.Err }

// InvalidRecordError wraps the validation failure of a record document.
type InvalidRecordError struct {
	Err error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record: %v", e.Err)
}

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

func (e *InvalidRecordError) Unwrap() error { return e.Err }

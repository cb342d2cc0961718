package daemon

import (
	"errors"
	"fmt"

	"github.com/specter-dev/specter/internal/library"
	"github.com/specter-dev/specter/internal/player"
	"github.com/specter-dev/specter/internal/recorder"
)

// Sentinel errors for daemon operations. Recorder, player, and library
// errors pass through untouched; the kinds below cover the daemon's own
// rejections.
var (
	ErrOperationInProgress = errors.New("another session operation is in progress")
	ErrNotPlaying          = errors.New("no playback in progress")
	ErrMalformedRequest    = errors.New("malformed request")
	ErrUnknownRequestType  = errors.New("unknown request type")
	ErrStorage             = errors.New("storage error")
)

// Error kind strings carried in the wire envelope. Clients assert on these,
// not on message text.
const (
	KindAlreadyRecording      = "already_recording"
	KindNotRecording          = "not_recording"
	KindSequenceNotFound      = "sequence_not_found"
	KindNothingLoaded         = "nothing_loaded"
	KindPlaybackInProgress    = "playback_already_in_progress"
	KindOperationInProgress   = "operation_in_progress"
	KindNotPlaying            = "not_playing"
	KindStorageError          = "storage_error"
	KindMalformedRequest      = "malformed_request"
	KindUnknownRequestType    = "unknown_request_type"
	KindActionExecutionFailed = "action_execution_failed"
	KindInternalError         = "internal_error"
)

// kindOf maps an error onto its wire kind.
func kindOf(err error) string {
	var stepErr *player.StepError
	switch {
	case errors.Is(err, recorder.ErrAlreadyRecording):
		return KindAlreadyRecording
	case errors.Is(err, recorder.ErrNotRecording):
		return KindNotRecording
	case errors.Is(err, library.ErrSequenceNotFound):
		return KindSequenceNotFound
	case errors.Is(err, player.ErrNothingLoaded):
		return KindNothingLoaded
	case errors.Is(err, player.ErrPlaybackInProgress):
		return KindPlaybackInProgress
	case errors.Is(err, ErrOperationInProgress):
		return KindOperationInProgress
	case errors.Is(err, ErrNotPlaying):
		return KindNotPlaying
	case errors.Is(err, ErrStorage):
		return KindStorageError
	case errors.Is(err, ErrMalformedRequest):
		return KindMalformedRequest
	case errors.Is(err, ErrUnknownRequestType):
		return KindUnknownRequestType
	case errors.As(err, &stepErr):
		return KindActionExecutionFailed
	}
	return KindInternalError
}

// storageErr wraps a persistence failure so it maps onto the storage kind.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

package lesson

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a lesson could not be generated.
type FailureKind int

const (
	// FailureBackend means the backend was unreachable or the request failed.
	FailureBackend FailureKind = iota
	// FailureEmpty means the backend answered without a payload.
	FailureEmpty
	// FailureInvalid means the payload did not parse as the lesson contract.
	FailureInvalid
)

func (k FailureKind) String() string {
	switch k {
	case FailureBackend:
		return "backend"
	case FailureEmpty:
		return "empty"
	case FailureInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// FallbackMessage is what the learner sees when a lesson fails to load.
const FallbackMessage = "AI 无法生成课程内容，请检查网络设置或稍后再试。"

// GenerationError is returned for every failed lesson request. No partial
// lesson accompanies it.
type GenerationError struct {
	Kind  FailureKind
	Topic string
	Level string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generate lesson %q (%s): %s failure", e.Topic, e.Level, e.Kind)
	}
	return fmt.Sprintf("generate lesson %q (%s): %s failure: %v", e.Topic, e.Level, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is, or wraps, a *GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// ErrBusy is returned when a view already has a lesson request in flight.
var ErrBusy = errors.New("lesson request already in flight")

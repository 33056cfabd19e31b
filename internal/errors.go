package internal

import (
	"errors"
	"fmt"
)

var (
	ErrMissingVersion = errors.New("nextRelease.version is undefined")
	ErrWriteFailure   = errors.New("write failed")
	ErrInvalidCommit  = errors.New("commit has no message")
	ErrRepository     = errors.New("repository unavailable")
	ErrVerifyFailure  = errors.New("release conditions not met")
	ErrConfig         = errors.New("invalid configuration")
)

// ErrorKind classifies a hook execution failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMissingVersion
	KindWriteFailure
	KindInvalidCommit
	KindRepository
	KindVerifyFailure
	KindConfig
)

var kindSentinels = map[ErrorKind]error{
	KindMissingVersion: ErrMissingVersion,
	KindWriteFailure:   ErrWriteFailure,
	KindInvalidCommit:  ErrInvalidCommit,
	KindRepository:     ErrRepository,
	KindVerifyFailure:  ErrVerifyFailure,
	KindConfig:         ErrConfig,
}

func (k ErrorKind) String() string {
	switch k {
	case KindMissingVersion:
		return "missing-version"
	case KindWriteFailure:
		return "write-failure"
	case KindInvalidCommit:
		return "invalid-commit"
	case KindRepository:
		return "repository"
	case KindVerifyFailure:
		return "verify-failure"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Phase names a release lifecycle step.
type Phase string

const (
	PhaseVerify  Phase = "verify-conditions"
	PhaseAnalyze Phase = "analyze-commits"
	PhaseNotes   Phase = "generate-notes"
	PhasePrepare Phase = "prepare"
	PhasePublish Phase = "publish"
)

// HookError is returned by every hook that fails. Err is the underlying cause.
type HookError struct {
	Phase Phase
	Kind  ErrorKind
	Err   error
}

func newHookError(phase Phase, kind ErrorKind, err error) *HookError {
	return &HookError{Phase: phase, Kind: kind, Err: err}
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind, so callers can write
// errors.Is(err, ErrMissingVersion) without caring how the cause was built.
func (e *HookError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf extracts the kind of a hook failure, KindUnknown for anything else.
func KindOf(err error) ErrorKind {
	var he *HookError
	if errors.As(err, &he) {
		return he.Kind
	}
	return KindUnknown
}

package profiles

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure of a profile query.
type Kind string

const (
	KindProfileNotFound   Kind = "ProfileNotFound"
	KindMalformedYAML     Kind = "MalformedYAML"
	KindNoProfilesDefined Kind = "NoProfilesDefined"
	KindInvalidFilter     Kind = "InvalidFilter"
	KindReadError         Kind = "ReadError"
)

var (
	ErrProfileNotFound   = errors.New("profiles.yml not found")
	ErrMalformedYAML     = errors.New("malformed profiles.yml")
	ErrNoProfilesDefined = errors.New("no profiles defined")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrReadError         = errors.New("read profiles.yml")
)

var kindSentinels = map[Kind]error{
	KindProfileNotFound:   ErrProfileNotFound,
	KindMalformedYAML:     ErrMalformedYAML,
	KindNoProfilesDefined: ErrNoProfilesDefined,
	KindInvalidFilter:     ErrInvalidFilter,
	KindReadError:         ErrReadError,
}

// Error is the structured error returned by all profile queries.
// It matches the sentinel error of its [Kind] with [errors.Is].
type Error struct {
	Err     error
	Kind    Kind
	Message string
	Paths   []string // Candidate paths, set for [KindProfileNotFound].
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]

	return ok && target == sentinel
}

// AsError converts err into an [*Error]. Errors that are not already an
// [*Error] are reported with [KindReadError].
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr
	}

	return &Error{Kind: KindReadError, Message: err.Error(), Err: err}
}

func newNotFoundError(paths []string) *Error {
	msg := "could not find profiles.yml"
	if len(paths) == 0 {
		msg += ": no candidate locations are configured"
	} else {
		msg += "; checked: " + strings.Join(paths, ", ")
	}

	return &Error{
		Kind:    KindProfileNotFound,
		Message: msg,
		Paths:   paths,
	}
}

func newMalformedError(path string, err error) *Error {
	return &Error{
		Kind:    KindMalformedYAML,
		Message: fmt.Sprintf("parse %s: %v", path, err),
		Err:     err,
	}
}

func newNoProfilesError(path, detail string) *Error {
	return &Error{
		Kind:    KindNoProfilesDefined,
		Message: fmt.Sprintf("%s: %s", path, detail),
	}
}

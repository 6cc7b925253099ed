/*
NAME
  errors.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per error kind surfaced by the engine. Callers should
// test against these with errors.Is; the concrete *Error wraps whatever
// underlying cause (if any) produced them.
var (
	ErrInvalidRange        = errors.New("invalid range")
	ErrInvalidTime         = errors.New("invalid time string")
	ErrDecoder             = errors.New("decoder error")
	ErrNoFrames            = errors.New("no frames sampled")
	ErrCancelled           = errors.New("cancelled")
	ErrInternalConsistency = errors.New("internal consistency violation")
)

// Error wraps one of the sentinel kinds above with context describing what
// went wrong and, optionally, an underlying cause.
type Error struct {
	Sentinel error
	Msg      string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Sentinel, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Sentinel, e.Msg)
}

// Unwrap lets errors.Is/errors.As see through to both the sentinel kind and
// any wrapped cause.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Sentinel, e.Cause}
	}
	return []error{e.Sentinel}
}

func invalidRangef(format string, args ...interface{}) error {
	return &Error{Sentinel: ErrInvalidRange, Msg: fmt.Sprintf(format, args...)}
}

func invalidTimef(format string, args ...interface{}) error {
	return &Error{Sentinel: ErrInvalidTime, Msg: fmt.Sprintf(format, args...)}
}

func decoderErr(cause error) error {
	return &Error{Sentinel: ErrDecoder, Msg: "frame source read failed", Cause: cause}
}

func noFramesf(format string, args ...interface{}) error {
	return &Error{Sentinel: ErrNoFrames, Msg: fmt.Sprintf(format, args...)}
}

func cancelled(cause error) error {
	return &Error{Sentinel: ErrCancelled, Msg: "detection cancelled", Cause: cause}
}

func internalConsistencyf(format string, args ...interface{}) error {
	return &Error{Sentinel: ErrInternalConsistency, Msg: fmt.Sprintf(format, args...)}
}

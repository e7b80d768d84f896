package model

import "errors"

var (
	// ErrTransientNetwork marks failures that a bounded retry may recover from.
	ErrTransientNetwork = errors.New("transient network failure")
	// ErrRemoteUnavailable marks protocol, auth and status failures. Never retried.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	ErrNotFound          = errors.New("not found")
	ErrDataInconsistency = errors.New("data inconsistency")
)

package distribution

import (
	"errors"
	"fmt"
)

// WriteErrorKind distinguishes remote write failures so callers can
// decide whether a retry could help.
type WriteErrorKind string

const (
	// WriteErrAuth covers authentication and permission failures.
	// Retrying without fixing credentials will not help.
	WriteErrAuth WriteErrorKind = "auth"

	// WriteErrQuota covers storage-quota and file-size rejections.
	WriteErrQuota WriteErrorKind = "quota"

	// WriteErrTransient covers network failures, rate limiting and
	// server errors that may succeed on a later attempt.
	WriteErrTransient WriteErrorKind = "transient"
)

// RemoteWriteError describes a failed remote store operation.
type RemoteWriteError struct {
	Kind WriteErrorKind
	Op   string // "ensure folder" or "upload file"
	Name string // folder or file name involved
	Err  error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s %q failed (%s): %v", e.Op, e.Name, e.Kind, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// IsTransientWrite reports whether err is a remote write failure that
// may succeed if the operation is retried.
func IsTransientWrite(err error) bool {
	var werr *RemoteWriteError
	return errors.As(err, &werr) && werr.Kind == WriteErrTransient
}

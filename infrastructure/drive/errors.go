package drive

import (
	"context"
	"errors"
	"net/http"

	"product-media-pipeline/domain/distribution"

	"google.golang.org/api/googleapi"
)

// classifyKind maps a raw Drive API error to a write-error kind so the
// caller can tell auth failures apart from quota/size rejections and
// retryable transport failures.
func classifyKind(err error) distribution.WriteErrorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return distribution.WriteErrTransient
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		// Network-level failures carry no HTTP status.
		return distribution.WriteErrTransient
	}

	switch apiErr.Code {
	case http.StatusUnauthorized:
		return distribution.WriteErrAuth
	case http.StatusForbidden:
		for _, e := range apiErr.Errors {
			switch e.Reason {
			case "storageQuotaExceeded", "quotaExceeded":
				return distribution.WriteErrQuota
			case "rateLimitExceeded", "userRateLimitExceeded":
				return distribution.WriteErrTransient
			}
		}
		return distribution.WriteErrAuth
	case http.StatusRequestEntityTooLarge:
		return distribution.WriteErrQuota
	case http.StatusTooManyRequests:
		return distribution.WriteErrTransient
	}
	if apiErr.Code >= 500 {
		return distribution.WriteErrTransient
	}
	return distribution.WriteErrTransient
}

// classifyWriteError wraps a raw Drive error into the domain taxonomy.
func classifyWriteError(op, name string, err error) *distribution.RemoteWriteError {
	return &distribution.RemoteWriteError{
		Kind: classifyKind(err),
		Op:   op,
		Name: name,
		Err:  err,
	}
}

package drm

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ErrClosed is returned for requests on a closed File.
var ErrClosed = errors.New("drm: file closed")

// RequestError reports a failed kernel request.
type RequestError struct {
	// Request is the symbolic request name, e.g. "DRM_IOCTL_GEM_CLOSE".
	Request string

	// Err is the underlying cause, normally a unix.Errno.
	Err error
}

func (e *RequestError) Error() string {
	return "drm: " + e.Request + " failed: " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Code returns the negative errno of the failure, or -EIO when the cause
// is not an errno.
func (e *RequestError) Code() int {
	var errno unix.Errno
	if errors.As(e.Err, &errno) {
		return -int(errno)
	}
	return -int(unix.EIO)
}

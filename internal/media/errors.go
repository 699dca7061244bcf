package media

import "errors"

var (
	// ErrProberUnavailable indicates the duration prober is not configured.
	ErrProberUnavailable = errors.New("media duration prober unavailable")
)

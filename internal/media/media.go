package media

import (
	"context"
	"io"
)

// Storage persists an uploaded media file and returns its public location.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// DurationProber reports the playback duration, in seconds, of a local
// media file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

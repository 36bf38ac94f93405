//go:build !unix

package runlock

import (
	"log/slog"
)

// Acquire is a no-op where flock is unavailable.
func Acquire(path string) (*Lock, error) {
	slog.Warn("Run lock not supported on this platform", "path", path)
	return &Lock{path: path}, nil
}

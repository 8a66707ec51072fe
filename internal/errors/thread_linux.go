//go:build linux

package errors

import "golang.org/x/sys/unix"

// CurrentThreadID returns the kernel id of the calling OS thread. Goroutines
// migrate between threads unless locked with runtime.LockOSThread; cgo
// callbacks always run on the calling C thread.
func CurrentThreadID() uint64 {
	return uint64(unix.Gettid())
}

//go:build !linux

package errors

// CurrentThreadID returns 0 on platforms without a cheap thread id, so all
// threads share one slot.
func CurrentThreadID() uint64 {
	return 0
}

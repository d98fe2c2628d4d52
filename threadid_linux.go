//go:build linux

package alogger

import "golang.org/x/sys/unix"

// threadID returns the OS-level LWP id of the calling goroutine's current
// thread, matching the reference implementation's pid_t threadId field.
// Because Go goroutines migrate between OS threads, this value is only
// meaningful as a snapshot at emission time, which is exactly when a
// Record captures it.
func threadID() int {
	return unix.Gettid()
}

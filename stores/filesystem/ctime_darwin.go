//go:build darwin

package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime returns the file's birth time as reported by the kernel.
func creationTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	}
	return time.Unix(0, 0)
}

//go:build linux

package immich

import (
	"os"
	"syscall"
	"time"
)

// fileCtime returns the inode change time, the closest thing to a
// creation timestamp the Linux stat interface exposes.
func fileCtime(info os.FileInfo) time.Time {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	return time.Unix(sys.Ctim.Sec, sys.Ctim.Nsec)
}

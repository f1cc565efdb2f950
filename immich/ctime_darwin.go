//go:build darwin

package immich

import (
	"os"
	"syscall"
	"time"
)

// fileCtime returns the inode change time. On macOS, Stat_t has
// Ctimespec (not Ctim like Linux).
func fileCtime(info os.FileInfo) time.Time {
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	return time.Unix(sys.Ctimespec.Sec, sys.Ctimespec.Nsec)
}

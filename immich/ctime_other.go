//go:build !linux && !darwin

package immich

import (
	"os"
	"time"
)

// fileCtime returns the zero time on unsupported platforms. Callers
// fall back to the modification time for the fileCreatedAt metadata.
func fileCtime(_ os.FileInfo) time.Time {
	return time.Time{}
}

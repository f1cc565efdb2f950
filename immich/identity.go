package immich

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/unicode/norm"
)

// Identity derives the progress-store key for a candidate file. The
// strategy decides what "the same file" means across runs.
type Identity interface {
	Key(f CandidateFile) (string, error)
}

// NewIdentity maps a configured strategy name to an implementation.
func NewIdentity(strategy string) (Identity, error) {
	switch strategy {
	case "", "filename":
		return FilenameIdentity{}, nil
	case "content-hash":
		return ContentHashIdentity{}, nil
	default:
		return nil, fmt.Errorf("unknown dedup strategy %q", strategy)
	}
}

// FilenameIdentity keys progress on the base filename alone, NFC
// normalized so the same name matches across platforms that disagree on
// Unicode form. Two files with the same name but different content
// count as the same entity.
type FilenameIdentity struct{}

func (FilenameIdentity) Key(f CandidateFile) (string, error) {
	return norm.NFC.String(f.Name), nil
}

// ContentHashIdentity keys progress on the SHA-256 of file content.
// Renames don't cause re-uploads; same-named files with different bytes
// are tracked separately.
type ContentHashIdentity struct{}

func (ContentHashIdentity) Key(f CandidateFile) (string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", f.Name, err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", f.Name, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

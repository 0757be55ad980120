package hashutil

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"

	"github.com/arthur-debert/relink/pkg/types"
)

// New returns the hash used for file checksums
func New() hash.Hash {
	return sha256.New()
}

// Sum formats a finished hash as "sha256:<hex>"
func Sum(h hash.Hash) string {
	return fmt.Sprintf("sha256:%x", h.Sum(nil))
}

// CalculateFileChecksum calculates the SHA256 checksum of a file
func CalculateFileChecksum(fsys types.FS, path string) (string, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	h := New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}

	return Sum(h), nil
}

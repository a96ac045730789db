// Package digest computes content digests for duplicate detection and
// tracks which digests already exist under a destination tree.
package digest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnreadable indicates a file could not be opened or read for
// hashing. Callers treat the file as unprocessable for the run.
var ErrUnreadable = errors.New("file unreadable")

// blockSize is the read granularity for hashing. Files are streamed,
// never loaded whole.
const blockSize = 64 * 1024

// Hash returns the hex md5 digest of the file's full contents. The
// whole file is hashed, not a prefix, so a truncated or corrupted copy
// never matches an intact one. md5 is used as a dedup key here, not
// for security.
func Hash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() { _ = f.Close() }()

	h := md5.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, blockSize)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

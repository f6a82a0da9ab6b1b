// Package hashutil produces content fingerprints used for incremental
// indexing: a file whose fingerprint is unchanged is never re-chunked.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Fingerprint returns the lowercase hex SHA-256 digest of content. Identical
// bytes always produce the identical fingerprint; the digest carries no
// notion of timestamps or file metadata.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// FingerprintReader streams r through SHA-256 without buffering the whole
// input in memory, for callers that already hold an io.Reader (e.g. reading
// a blob from git) rather than a byte slice.
func FingerprintReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

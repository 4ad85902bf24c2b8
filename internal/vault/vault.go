// Package vault stores archived client documents under their checksum.
package vault

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned by GetDocument for an unknown checksum.
var ErrDocumentNotFound = errors.New("document not found")

// checkChecksum rejects anything that is not a lowercase hex digest, so a
// checksum can be used directly as a file name or object key.
func checkChecksum(checksum string) error {
	if checksum == "" {
		return fmt.Errorf("empty checksum")
	}
	for _, c := range checksum {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("invalid checksum %q", checksum)
		}
	}
	return nil
}

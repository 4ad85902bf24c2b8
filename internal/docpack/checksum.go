package docpack

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// checksumKey separates archive checksums from any other BLAKE3 use.
var checksumKey = [32]byte{
	'v', 'a', 'h', 'q', '.', 'd', 'o', 'c', 'p', 'a', 'c', 'k', '.',
	'a', 'r', 'c', 'h', 'i', 'v', 'e',
}

// Checksum returns the hex-encoded keyed BLAKE3 hash of a packed archive.
// It is the archive's address in the vault.
func Checksum(packed []byte) string {
	h, err := blake3.NewKeyed(checksumKey[:])
	if err != nil {
		panic("docpack: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	h.Write(packed)
	return hex.EncodeToString(h.Sum(nil))
}

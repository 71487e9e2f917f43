// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// checksumExt is appended to the output path to name the sidecar file.
const checksumExt = ".blake3"

// Blake3Hex returns the hex BLAKE3-256 digest of data.
func Blake3Hex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// checksumLine formats the sidecar for path as "<hex>  <basename>\n", the
// layout b3sum reads with --check.
func checksumLine(sum, path string) []byte {
	return fmt.Appendf(nil, "%s  %s\n", sum, filepath.Base(path))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// compressXZ writes data to w as a single xz stream.
func compressXZ(w io.Writer, data []byte) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if _, err := xw.Write(data); err != nil {
		xw.Close()
		return fmt.Errorf("compressing output: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("finishing xz stream: %w", err)
	}
	return nil
}

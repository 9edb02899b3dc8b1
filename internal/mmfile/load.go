// Package mmfile provides platform-specific helpers for reading codeplug
// image files.
package mmfile

import (
	"fmt"

	"github.com/yl3im/hyrps/internal/image"
)

// Load maps path and copies it into an editable image buffer. The mapping is
// released before Load returns.
func Load(path string) (img *image.Buffer, err error) {
	data, unmap, err := Map(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := unmap(); uerr != nil && err == nil {
			err = fmt.Errorf("mmfile: unmap %s: %w", path, uerr)
		}
	}()
	return image.Clone(data), nil
}

package recording

import (
	"fmt"
	"os"

	"github.com/gogpu/pix"
)

// NewFileRecorder returns a Recorder that also appends a line per device
// call to the file at path, creating or truncating it. Close the recorder
// to close the file.
func NewFileRecorder(dev pix.Device, path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	r := NewRecorder(dev)
	r.log = f
	r.closer = f
	return r, nil
}

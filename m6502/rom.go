package m6502

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// NewROM reads a ROM image for the window [start, end] from r. The image must
// be exactly the size of the window.
func NewROM(start, end uint16, r io.Reader) (*Memory, error) {
	m, err := newMemory(start, end, true)
	if err != nil {
		return nil, err
	}
	// One byte of slack so an oversized image is detected without reading
	// all of it.
	buf := make([]byte, len(m.data)+1)
	n, err := io.ReadFull(r, buf)
	switch {
	case err == io.ErrUnexpectedEOF || err == io.EOF:
	case err != nil:
		return nil, errors.Wrap(&AccessError{Name: "ROM", Address: int(start) + n, Msg: err.Error()}, "reading ROM image")
	}
	if n != len(m.data) {
		if n > len(m.data) {
			extra, err := io.Copy(io.Discard, r)
			if err != nil {
				return nil, errors.Wrap(&AccessError{Name: "ROM", Address: int(start) + n + int(extra), Msg: err.Error()}, "reading ROM image")
			}
			n += int(extra)
		}
		return nil, &SizeMismatchError{Want: len(m.data), Got: n}
	}
	copy(m.data, buf[:n])
	return m, nil
}

// LoadROMFile builds a ROM for [start, end] from the file at path.
func LoadROMFile(start, end uint16, path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(&AccessError{Name: "ROM", Address: int(start), Msg: err.Error()}, "opening %s", path)
	}
	defer f.Close()
	m, err := NewROM(start, end, f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return m, nil
}

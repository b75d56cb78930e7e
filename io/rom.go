package io

import (
	"io"
)

// Rom is a fixed-capacity, read-only image buffer. Images larger than the
// capacity are truncated, and the truncation is recorded.
type Rom struct {
	Capacity int // Capacity in bytes.

	Data      []byte
	Truncated bool // Set if the last image exceeded Capacity.
}

// Unmarshal loads the ROM from a reader, replacing any existing data.
// At most Capacity bytes are consumed from the image, plus one byte to
// detect truncation.
func (rom *Rom) Unmarshal(file io.Reader) (err error) {
	if rom.Capacity <= 0 {
		err = ErrRomEmpty
		return
	}

	data := make([]byte, rom.Capacity)
	n, err := io.ReadFull(file, data)
	switch err {
	case nil:
		var extra [1]byte
		more, _ := io.ReadFull(file, extra[:])
		rom.Truncated = more > 0
	case io.EOF, io.ErrUnexpectedEOF:
		err = nil
		rom.Truncated = false
	default:
		return
	}

	rom.Data = data[:n]

	return
}

// Words returns the number of complete words of the given size in the ROM.
func (rom *Rom) Words(size int) int {
	return len(rom.Data) / size
}

package net

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameSize bounds a single inbound frame to guard against a
// malformed or hostile length prefix allocating unbounded memory.
const maxFrameSize = 64 * 1024

// ReadFrame reads one length-prefixed frame: a 4-byte big-endian length
// followed by that many payload bytes. The wire codec upstream of this
// core (spec §1) is expected to further decode the payload into a
// ClientIntent; this layer only moves bytes.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes payload prefixed with its 4-byte big-endian length.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

package osc

import (
	"bytes"
	"fmt"
)

////
// De/Encoding functions
////

// readString reads a null-terminated, 4-byte-aligned string from data
// starting at pos. It returns the string and the position immediately after
// the padded region, which may lie past the end of data; the next read is
// expected to bounds-check. Fails with ErrMalformedPacket if no null byte
// exists before the end of data.
func readString(data []byte, pos int) (string, int, error) {
	if pos < 0 || pos > len(data) {
		return "", 0, fmt.Errorf("readString: position %d out of range: %w", pos, ErrMalformedPacket)
	}
	end := bytes.IndexByte(data[pos:], 0)
	if end < 0 {
		return "", 0, fmt.Errorf("readString: missing string terminator: %w", ErrMalformedPacket)
	}
	return string(data[pos : pos+end]), pos + paddedStringLen(end), nil
}

// writeString writes s to data at pos as a null-terminated string followed
// by null padding up to the next 4-byte boundary. Returns the position after
// the padded region. Fails with ErrBufferTooSmall before touching data if
// the padded string does not fit.
func writeString(s string, data []byte, pos int) (int, error) {
	n := paddedStringLen(len(s))
	if pos+n > len(data) {
		return pos, fmt.Errorf("writeString: %d bytes at %d exceeds buffer of %d: %w", n, pos, len(data), ErrBufferTooSmall)
	}
	copy(data[pos:], s)
	// The buffer is reused across packets, so the terminator and padding
	// must overwrite whatever the previous packet left behind.
	for i := pos + len(s); i < pos+n; i++ {
		data[i] = 0
	}
	return pos + n, nil
}

// paddedStringLen returns the encoded size of a string of length n: the
// string, its null terminator, and padding to the next 4-byte boundary. A
// string of exactly 4k bytes still gets one null and three pad bytes.
func paddedStringLen(n int) int {
	return n + 1 + padBytesNeeded(n+1)
}

// padBytesNeeded determines how many bytes are needed to fill up to the next
// 4 byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

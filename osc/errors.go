package osc

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPacket reports a datagram that does not conform to OSC
	// framing: a string without a null terminator inside the packet, or a
	// scalar read running past the end of the packet.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrBufferTooSmall reports that the fixed packet buffer cannot hold
	// the data being written. The buffer size is set at endpoint
	// construction and never grows.
	ErrBufferTooSmall = errors.New("buffer too small")
)

// UnknownTypeTagError reports a type tag outside {f,i,s} encountered while
// parsing. It is non-fatal: ParsePacket still returns the message with a
// placeholder argument for the unknown tag, but all payload offsets after
// the unknown tag are unreliable. Callers that prefer strictness can treat
// it as fatal; the Server logs it and dispatches anyway.
type UnknownTypeTagError struct {
	Tag byte
}

func (e *UnknownTypeTagError) Error() string {
	return fmt.Sprintf("unknown type tag %q", e.Tag)
}

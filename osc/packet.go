package osc

import (
	"encoding/binary"
	"fmt"
	"math"
)

const bit32Size = 4

// ParsePacket decodes a single OSC message from data. The caller slices the
// receive buffer to the datagram length, so len(data) is the packet size.
//
// A packet that ends after the address parses to a message with no
// arguments. A type tag outside {f,i,s} produces a placeholder string
// argument ("unknown type:X", with no matching type tag) and the message is
// returned together with a non-fatal *UnknownTypeTagError; since an unknown
// tag consumes no payload bytes, every field after it is unreliable. All
// other framing violations fail with ErrMalformedPacket.
func ParsePacket(data []byte) (*Message, error) {
	if len(data) == 0 || data[0] != '/' {
		return nil, fmt.Errorf("ParsePacket: missing address pattern: %w", ErrMalformedPacket)
	}

	addr, pos, err := readString(data, 0)
	if err != nil {
		return nil, fmt.Errorf("ParsePacket: %w", err)
	}
	msg := &Message{Address: addr}

	if pos >= len(data) {
		return msg, nil
	}

	typetags, pos, err := readString(data, pos)
	if err != nil {
		return nil, fmt.Errorf("ParsePacket: %w", err)
	}
	if len(typetags) == 0 {
		return msg, nil
	}
	if typetags[0] != ',' {
		return nil, fmt.Errorf("ParsePacket: type tag string %q does not start with ',': %w", typetags, ErrMalformedPacket)
	}

	var unknown error
	for i := 1; i < len(typetags); i++ {
		switch t := typetags[i]; t {
		case 'f':
			if pos+bit32Size > len(data) {
				return nil, fmt.Errorf("ParsePacket: float32 argument past end of packet: %w", ErrMalformedPacket)
			}
			f := math.Float32frombits(binary.BigEndian.Uint32(data[pos:]))
			msg.Arguments = append(msg.Arguments, f)
			msg.TypeTags = append(msg.TypeTags, TypeFloat32)
			pos += bit32Size

		case 'i':
			if pos+bit32Size > len(data) {
				return nil, fmt.Errorf("ParsePacket: int32 argument past end of packet: %w", ErrMalformedPacket)
			}
			msg.Arguments = append(msg.Arguments, int32(binary.BigEndian.Uint32(data[pos:])))
			msg.TypeTags = append(msg.TypeTags, TypeInt32)
			pos += bit32Size

		case 's':
			var s string
			s, pos, err = readString(data, pos)
			if err != nil {
				return nil, fmt.Errorf("ParsePacket: %w", err)
			}
			msg.Arguments = append(msg.Arguments, s)
			msg.TypeTags = append(msg.TypeTags, TypeString)

		case 0: // alignment padding inside the tag string

		default:
			// Permissive fallback: keep the placeholder (no type tag, no
			// payload consumed) and report the first unknown tag so strict
			// callers can abort.
			msg.Arguments = append(msg.Arguments, "unknown type:"+string(t))
			if unknown == nil {
				unknown = &UnknownTypeTagError{Tag: t}
			}
		}
	}

	return msg, unknown
}

// BuildPacket encodes msg into buf and returns the number of meaningful
// bytes written. The caller must transmit only buf[:n], since buf is a
// reusable fixed-capacity buffer that is usually larger than the packet.
// Fails with ErrBufferTooSmall if the packet does not fit.
//
// Arguments and type tags are paired in order; an argument without a
// pairing tag is not encoded. Numeric arguments are narrowed to their
// 32-bit wire form.
func BuildPacket(msg *Message, buf []byte) (int, error) {
	pos, err := writeString(msg.Address, buf, 0)
	if err != nil {
		return 0, fmt.Errorf("BuildPacket: %w", err)
	}

	pos, err = writeString(msg.TypeTagString(), buf, pos)
	if err != nil {
		return 0, fmt.Errorf("BuildPacket: %w", err)
	}

	n := len(msg.Arguments)
	if len(msg.TypeTags) < n {
		n = len(msg.TypeTags)
	}
	for i := 0; i < n; i++ {
		switch msg.TypeTags[i] {
		case TypeFloat32:
			if pos+bit32Size > len(buf) {
				return 0, fmt.Errorf("BuildPacket: float32 argument at %d: %w", pos, ErrBufferTooSmall)
			}
			binary.BigEndian.PutUint32(buf[pos:], math.Float32bits(toFloat32(msg.Arguments[i])))
			pos += bit32Size

		case TypeInt32:
			if pos+bit32Size > len(buf) {
				return 0, fmt.Errorf("BuildPacket: int32 argument at %d: %w", pos, ErrBufferTooSmall)
			}
			binary.BigEndian.PutUint32(buf[pos:], uint32(toInt32(msg.Arguments[i])))
			pos += bit32Size

		case TypeString:
			s, _ := msg.Arguments[i].(string)
			pos, err = writeString(s, buf, pos)
			if err != nil {
				return 0, fmt.Errorf("BuildPacket: %w", err)
			}

		default: // tags outside {f,i,s} encode nothing
		}
	}

	return pos, nil
}

func toFloat32(arg interface{}) float32 {
	switch v := arg.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	case int32:
		return float32(v)
	case int64:
		return float32(v)
	}
	return 0
}

func toInt32(arg interface{}) int32 {
	switch v := arg.(type) {
	case int32:
		return v
	case int:
		return int32(v)
	case int64:
		return int32(v)
	case float32:
		return int32(v)
	case float64:
		return int32(v)
	}
	return 0
}

package osc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faderPacket is the canonical OSC 1.0 example: "/1/faderA" with a single
// float32 0.5. 12 bytes of padded address, 4 bytes of tag string, 4 bytes of
// big-endian IEEE-754.
var faderPacket = []byte{
	'/', '1', '/', 'f', 'a', 'd', 'e', 'r', 'A', 0, 0, 0,
	',', 'f', 0, 0,
	0x3f, 0x00, 0x00, 0x00,
}

func TestBuildPacketFader(t *testing.T) {
	buf := make([]byte, DefaultBufferSize)
	n, err := BuildPacket(NewMessage("/1/faderA", float32(0.5)), buf)
	require.NoError(t, err)
	assert.Equal(t, len(faderPacket), n)
	assert.Equal(t, faderPacket, buf[:n])
}

func TestParsePacketInt(t *testing.T) {
	data := []byte{
		'/', 'i', 0, 0,
		',', 'i', 0, 0,
		0, 0, 0, 42,
	}
	msg, err := ParsePacket(data)
	require.NoError(t, err)
	assert.Equal(t, "/i", msg.Address)
	assert.Equal(t, []interface{}{int32(42)}, msg.Arguments)
	assert.Equal(t, []TypeTag{TypeInt32}, msg.TypeTags)
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name string
		msg  *Message
	}{
		{"float", NewMessage("/1/faderA", float32(0.5))},
		{"int", NewMessage("/i", int32(42))},
		{"string", NewMessage("/s", "hello")},
		{"mixed", NewMessage("/mixed/args", float32(-1.25), int32(-7), "abc", int32(1<<30))},
		{"no_args", NewMessage("/ping")},
		{"string_4k_len", NewMessage("/s", "four")},
	} {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, DefaultBufferSize)
			n, err := BuildPacket(tt.msg, buf)
			require.NoError(t, err)
			require.Zero(t, n%4, "packet size must be 32-bit aligned")

			got, err := ParsePacket(buf[:n])
			require.NoError(t, err)
			assert.True(t, got.Equals(tt.msg), "round trip mismatch: got %v, want %v", got, tt.msg)
		})
	}
}

// Numeric arguments are narrowed to their 32-bit wire form, so the
// Go-ergonomic int and float64 survive a round trip as int32 and float32.
func TestBuildPacketCoercesNumerics(t *testing.T) {
	buf := make([]byte, DefaultBufferSize)
	n, err := BuildPacket(NewMessage("/coerce", 42, 0.5), buf)
	require.NoError(t, err)

	got, err := ParsePacket(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int32(42), float32(0.5)}, got.Arguments)
}

func TestParsePacketMalformed(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"no_leading_slash", []byte{'a', 'b', 0, 0}},
		{"unterminated_address", []byte{'/', 'a', 'b', 'c'}},
		{"unterminated_typetags", []byte{'/', 'a', 0, 0, ',', 'i', 'i', 'i'}},
		{"typetags_missing_comma", []byte{'/', 'a', 0, 0, 'i', 'f', 0, 0}},
		{"int_payload_truncated", []byte{'/', 'a', 0, 0, ',', 'i', 0, 0, 0, 0}},
		{"float_payload_missing", []byte{'/', 'a', 0, 0, ',', 'f', 0, 0}},
		{"string_payload_unterminated", []byte{'/', 'a', 0, 0, ',', 's', 0, 0, 'x', 'y', 'z', 'w'}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePacket(tt.data)
			assert.ErrorIs(t, err, ErrMalformedPacket)
		})
	}
}

// A packet that ends right after the address is a message with no arguments.
func TestParsePacketAddressOnly(t *testing.T) {
	msg, err := ParsePacket([]byte{'/', 'o', 'k', 0})
	require.NoError(t, err)
	assert.Equal(t, "/ok", msg.Address)
	assert.Empty(t, msg.Arguments)
}

func TestParsePacketUnknownTypeTag(t *testing.T) {
	data := []byte{
		'/', 'x', 0, 0,
		',', 'z', 'i', 0,
		0, 0, 0, 5,
	}
	msg, err := ParsePacket(data)

	var ut *UnknownTypeTagError
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, byte('z'), ut.Tag)

	// The placeholder is kept for compatibility with the permissive
	// behavior: no payload consumed, no type tag appended, and decoding
	// continues at the unchanged offset.
	require.NotNil(t, msg)
	assert.Equal(t, []interface{}{"unknown type:z", int32(5)}, msg.Arguments)
	assert.Equal(t, []TypeTag{TypeInt32}, msg.TypeTags)
}

func TestBuildPacketBufferTooSmall(t *testing.T) {
	msg := NewMessage("/1/faderA", float32(0.5))

	full := make([]byte, DefaultBufferSize)
	n, err := BuildPacket(msg, full)
	require.NoError(t, err)

	// One byte short of the exact packet size must fail, and the error must
	// arrive before the caller could mistake anything for a valid packet.
	short := make([]byte, n-1)
	got, err := BuildPacket(msg, short)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Zero(t, got)
}

// An argument without a pairing tag is not encoded; a tag without a pairing
// argument encodes nothing either.
func TestBuildPacketZipsArgumentsAndTags(t *testing.T) {
	buf := make([]byte, DefaultBufferSize)

	extraArg := &Message{
		Address:   "/zip",
		Arguments: []interface{}{int32(1), int32(2)},
		TypeTags:  []TypeTag{TypeInt32},
	}
	n, err := BuildPacket(extraArg, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{'/', 'z', 'i', 'p', 0, 0, 0, 0, ',', 'i', 0, 0, 0, 0, 0, 1}, buf[:n])

	extraTag := &Message{
		Address:   "/zip",
		Arguments: []interface{}{int32(1)},
		TypeTags:  []TypeTag{TypeInt32, TypeInt32},
	}
	n, err = BuildPacket(extraTag, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{'/', 'z', 'i', 'p', 0, 0, 0, 0, ',', 'i', 'i', 0, 0, 0, 0, 1}, buf[:n])
}

func FuzzParsePacket(f *testing.F) {
	f.Add(faderPacket)
	f.Add([]byte{'/', 'i', 0, 0, ',', 'i', 0, 0, 0, 0, 0, 42})
	f.Add([]byte{'/', 's', 0, 0, ',', 's', 0, 0, 'h', 'i', 0, 0})
	f.Add([]byte{'/', 'o', 'k', 0})
	f.Fuzz(func(t *testing.T, data []byte) {
		msg, err := ParsePacket(data)
		if err != nil {
			return
		}

		buf := make([]byte, 4096)
		n, err := BuildPacket(msg, buf)
		if err != nil {
			t.Fatalf("BuildPacket failed on parsed message %v: %v", msg, err)
		}

		msg2, err := ParsePacket(buf[:n])
		if err != nil {
			t.Fatalf("ParsePacket failed on built packet %v: %v", buf[:n], err)
		}

		buf2 := make([]byte, 4096)
		n2, err := BuildPacket(msg2, buf2)
		if err != nil {
			t.Fatalf("BuildPacket failed on reparsed message %v: %v", msg2, err)
		}

		if !bytes.Equal(buf[:n], buf2[:n2]) {
			t.Fatalf("rebuild not stable:\nfirst:  %v\nsecond: %v\nmessage: %v", buf[:n], buf2[:n2], msg)
		}
	})
}

var benchResult interface{}

func BenchmarkParsePacket(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	var m *Message
	for n := 0; n < b.N; n++ {
		m, _ = ParsePacket(faderPacket)
	}
	benchResult = m
}

func BenchmarkBuildPacket(b *testing.B) {
	msg := NewMessage("/composition/layers/1/clips/1/transport/position", float32(0.123456789), "hello world")
	buf := make([]byte, DefaultBufferSize)
	b.ReportAllocs()
	b.ResetTimer()
	var n int
	for i := 0; i < b.N; i++ {
		n, _ = BuildPacket(msg, buf)
	}
	benchResult = n
}

func TestParsePacketRespectsPacketSize(t *testing.T) {
	// The receive buffer is larger than the datagram; bytes past the packet
	// size must not leak into parsing.
	buf := make([]byte, DefaultBufferSize)
	copy(buf, faderPacket)
	for i := len(faderPacket); i < len(buf); i++ {
		buf[i] = 'x'
	}

	msg, err := ParsePacket(buf[:len(faderPacket)])
	require.NoError(t, err)
	assert.Equal(t, "/1/faderA", msg.Address)
	assert.Equal(t, []interface{}{float32(0.5)}, msg.Arguments)
}

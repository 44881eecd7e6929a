package osc

import (
	"fmt"
	"reflect"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more typed arguments. Arguments and TypeTags
// are parallel: the tag at index i gives the wire encoding of the argument
// at index i, and both slices have the same length for any well-formed
// message.
type Message struct {
	Address   string
	Arguments []interface{}
	TypeTags  []TypeTag
}

// NewMessage returns a new Message for the given OSC address. Type tags are
// inferred from the Go types of the arguments; arguments of unsupported
// types are ignored. Use Append to get an error instead.
func NewMessage(addr string, args ...interface{}) *Message {
	msg := &Message{Address: addr}
	for _, a := range args {
		if t := ToTypeTag(a); t != TypeInvalid {
			msg.Arguments = append(msg.Arguments, a)
			msg.TypeTags = append(msg.TypeTags, t)
		}
	}
	return msg
}

// Append appends the given arguments to the arguments list, inferring the
// type tag of each. If any argument has an unsupported type, nothing is
// appended and an error is returned.
func (msg *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return fmt.Errorf("append: unsupported argument type %T", a)
		}
	}
	for _, a := range args {
		msg.Arguments = append(msg.Arguments, a)
		msg.TypeTags = append(msg.TypeTags, ToTypeTag(a))
	}
	return nil
}

// Clear clears the OSC address and all arguments.
func (msg *Message) Clear() {
	msg.Address = ""
	msg.Arguments = msg.Arguments[:0]
	msg.TypeTags = msg.TypeTags[:0]
}

// Equals returns true if the given OSC Message `m` is equal to the current
// OSC Message. It checks the OSC address, the arguments, and the type tags.
func (msg *Message) Equals(m *Message) bool {
	return reflect.DeepEqual(msg, m)
}

// TypeTagString returns the wire form of the type tags: a ',' followed by
// one character per argument.
func (msg *Message) TypeTagString() string {
	var b strings.Builder
	b.Grow(len(msg.TypeTags) + 1)
	b.WriteByte(',')
	for _, t := range msg.TypeTags {
		b.WriteByte(byte(t))
	}
	return b.String()
}

// String implements the fmt.Stringer interface.
func (msg *Message) String() string {
	if msg == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(msg.Address)
	if len(msg.Arguments) == 0 {
		return b.String()
	}

	b.WriteByte(' ')
	b.WriteString(msg.TypeTagString())
	for _, arg := range msg.Arguments {
		fmt.Fprintf(&b, " %v", arg)
	}
	return b.String()
}

// CountArguments returns the number of arguments.
func (msg *Message) CountArguments() int {
	return len(msg.Arguments)
}

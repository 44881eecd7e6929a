package osc

import (
	"fmt"
	"log/slog"
	"strings"
)

// Method is an interface for OSC Methods: the handlers a Dispatcher routes
// messages to.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC
// Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the
// Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher routes received OSC Messages to Methods by address prefix.
// Every registered prefix that the message address starts with fires, in
// registration order; matching is a plain prefix comparison, not OSC
// address-pattern wildcard matching. A message matching no prefix is
// silently dropped.
type Dispatcher struct {
	prefixes []string
	methods  map[string]Method
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{methods: make(map[string]Method)}
}

// DefaultDispatcher returns a Dispatcher with a single "/" Method that logs
// every message. It is the fallback a Server uses when the caller supplies
// no dispatcher. A nil logger means slog.Default().
func DefaultDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := NewDispatcher()
	d.AddMethodFunc("/", func(msg *Message) {
		logger.Info("osc message", "address", msg.Address, "arguments", msg.Arguments)
	})
	return d
}

// AddMethod registers a Method for the given address prefix. The prefix must
// start with '/' and may not contain OSC pattern characters; registering the
// same prefix twice is an error.
func (d *Dispatcher) AddMethod(prefix string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("AddMethod: prefix %q must start with '/'", prefix)
	}
	if strings.ContainsAny(prefix, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: prefix %q may not contain any characters in \"*?,[]{}# \"", prefix)
	}
	if _, ok := d.methods[prefix]; ok {
		return fmt.Errorf("AddMethod: prefix %q already registered", prefix)
	}

	d.prefixes = append(d.prefixes, prefix)
	d.methods[prefix] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(prefix string, method MethodFunc) error {
	return d.AddMethod(prefix, method)
}

// Dispatch invokes every Method whose prefix matches the message address, in
// registration order. There is no short-circuit on first match.
func (d *Dispatcher) Dispatch(msg *Message) {
	for _, p := range d.prefixes {
		if strings.HasPrefix(msg.Address, p) {
			d.methods[p].HandleMessage(msg)
		}
	}
}

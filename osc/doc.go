// Package osc implements a minimal client and server for sending and
// receiving OpenSoundControl messages over UDP.
//
// This implementation follows the Open Sound Control 1.0 Specification
// (http://opensoundcontrol.org/spec-1_0.html), restricted to the three
// argument types that cover the vast majority of real-world controller
// traffic:
//
//	'f' (float32)
//	'i' (int32)
//	's' (string)
//
// OSC bundles, timetags, and the remaining argument types are out of scope.
//
// # Packets
//
// The unit of transmission of OSC is an OSC Packet. Any application that
// sends OSC Packets is an OSC client; any application that receives OSC
// Packets is an OSC server. A packet consists of a null-terminated address
// pattern, a null-terminated type tag string beginning with ',', and the
// argument payload, every field padded to a 32-bit boundary.
//
// Both endpoints own a single fixed-size packet buffer, allocated once at
// construction and reused for every datagram. A packet larger than the
// buffer fails with ErrBufferTooSmall; the buffer never grows.
//
// # Usage
//
// OSC client example:
//
//	client, err := osc.Dial("localhost:8765")
//	if err != nil { ... }
//	client.Send(osc.NewMessage("/1/faderA", float32(0.5)))
//
// OSC server example:
//
//	d := osc.NewDispatcher()
//	d.AddMethodFunc("/1/", func(msg *osc.Message) {
//		fmt.Println(msg)
//	})
//
//	server := &osc.Server{
//		Addr:       "127.0.0.1:8765",
//		Dispatcher: d,
//	}
//	if err := server.Listen(); err != nil { ... }
//	for {
//		if err := server.Poll(); err != nil { ... }
//		// other work in the caller's loop
//	}
//
// Server.Serve runs the same poll loop internally for callers that do not
// need to interleave their own work.
package osc

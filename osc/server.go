package osc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"runtime"
	"time"
)

const (
	// DefaultBufferSize is the packet buffer capacity used when an endpoint
	// does not configure one. It bounds the maximum packet size.
	DefaultBufferSize = 128

	// DefaultReadTimeout bounds a single Poll so the caller's loop keeps
	// running whether or not a packet arrived.
	DefaultReadTimeout = time.Millisecond
)

// Server represents an OSC server: a receiver of OSC messages over UDP. The
// server owns a single fixed-size receive buffer and is intended for
// single-threaded use, with one goroutine calling Poll (or Serve).
type Server struct {
	// Addr is the host:port to receive on. A host in 224.0.0.0/4 joins the
	// multicast group instead of binding a unicast address.
	Addr string

	// Dispatcher routes parsed messages to handlers. Nil means
	// DefaultDispatcher, which logs every message.
	Dispatcher *Dispatcher

	// ReadTimeout bounds a single Poll. Zero means DefaultReadTimeout.
	ReadTimeout time.Duration

	// BufferSize is the receive buffer capacity; packets larger than this
	// are truncated by the kernel and will typically fail to parse. Zero
	// means DefaultBufferSize.
	BufferSize int

	// Logger receives drop and dispatch diagnostics. Nil means
	// slog.Default().
	Logger *slog.Logger

	// Metrics, when non-nil, counts received packets, parse errors, and
	// dispatched messages.
	Metrics *Metrics

	conn net.PacketConn
	buf  []byte
}

// Listen binds the server socket and allocates the receive buffer. It must
// be called once before Poll or Serve.
func (s *Server) Listen() error {
	if s.conn != nil {
		return errors.New("osc: server already listening")
	}
	if s.Dispatcher == nil {
		s.Dispatcher = DefaultDispatcher(s.logger())
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.BufferSize <= 0 {
		s.BufferSize = DefaultBufferSize
	}
	s.buf = make([]byte, s.BufferSize)

	host, _, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return fmt.Errorf("osc: listen %s: %w", s.Addr, err)
	}

	if ip := net.ParseIP(host); ip != nil && ip.IsMulticast() {
		gaddr, err := net.ResolveUDPAddr("udp4", s.Addr)
		if err != nil {
			return fmt.Errorf("osc: listen %s: %w", s.Addr, err)
		}
		conn, err := net.ListenMulticastUDP("udp4", nil, gaddr)
		if err != nil {
			return fmt.Errorf("osc: listen %s: %w", s.Addr, err)
		}
		s.conn = conn
		return nil
	}

	conn, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return fmt.Errorf("osc: listen %s: %w", s.Addr, err)
	}
	s.conn = conn
	return nil
}

// LocalAddr returns the bound address, or nil before Listen. Useful when
// binding to port 0.
func (s *Server) LocalAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Poll performs one receive attempt bounded by ReadTimeout. A received
// packet is parsed and dispatched; a malformed packet is logged and dropped,
// since one bad datagram must not stop reception. A timeout is not an error:
// Poll returns nil and control goes back to the caller's loop. Any other I/O
// failure is returned to the caller.
func (s *Server) Poll() error {
	if s.conn == nil {
		return errors.New("osc: server not listening, call Listen first")
	}

	if err := s.conn.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
		return fmt.Errorf("osc: poll: %w", err)
	}

	n, from, err := s.conn.ReadFrom(s.buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil // no data this cycle
		}
		return fmt.Errorf("osc: poll: %w", err)
	}
	if s.Metrics != nil {
		s.Metrics.PacketsReceived.Inc()
		s.Metrics.BytesReceived.Add(float64(n))
	}

	msg, err := ParsePacket(s.buf[:n])
	if err != nil {
		var ut *UnknownTypeTagError
		if !errors.As(err, &ut) {
			if s.Metrics != nil {
				s.Metrics.ParseErrors.Inc()
			}
			s.logger().Debug("dropping malformed packet", "from", from, "size", n, "error", err)
			return nil
		}
		s.logger().Warn("packet with unknown type tag", "from", from, "tag", string(ut.Tag))
	}

	s.dispatch(msg, from)
	return nil
}

// dispatch hands the message to the Dispatcher, recovering from handler
// panics so a misbehaving handler cannot kill the receive loop.
func (s *Server) dispatch(msg *Message, from net.Addr) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger().Error("panic dispatching message", "from", from, "address", msg.Address, "panic", r, "stack", string(buf))
		}
	}()
	s.Dispatcher.Dispatch(msg)
	if s.Metrics != nil {
		s.Metrics.MessagesDispatched.Inc()
	}
}

// Serve polls until ctx is done or a fatal I/O error occurs. Temporary
// network errors are retried with exponential backoff, the way a listener
// accept loop does.
func (s *Server) Serve(ctx context.Context) error {
	var tempDelay time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := s.Poll()
		if err == nil {
			tempDelay = 0
			continue
		}

		var ne net.Error
		if errors.As(err, &ne) && ne.Temporary() {
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if max := 1 * time.Second; tempDelay > max {
				tempDelay = max
			}
			s.logger().Warn("temporary receive error", "error", err, "retry_in", tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		return err
	}
}

// Close closes the server socket. Poll and Serve return an error once the
// socket is closed.
func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// ListenAndServe binds a server on addr with the given dispatcher and polls
// until ctx is done.
func ListenAndServe(ctx context.Context, addr string, d *Dispatcher) error {
	s := &Server{Addr: addr, Dispatcher: d}
	if err := s.Listen(); err != nil {
		return err
	}
	defer s.Close()
	return s.Serve(ctx)
}

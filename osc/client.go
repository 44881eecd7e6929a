package osc

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

// DefaultMulticastTTL is the TTL applied when dialing a multicast group and
// no explicit TTL is configured.
const DefaultMulticastTTL = 2

// Client enables you to send OSC messages to a server. It owns a single
// fixed-size send buffer, reused for every packet.
type Client struct {
	conn    *net.UDPConn
	buf     []byte
	metrics *Metrics
}

type clientConfig struct {
	bufferSize   int
	multicastTTL int
	metrics      *Metrics
}

// ClientOption configures a Client at Dial time.
type ClientOption func(*clientConfig)

// WithBufferSize sets the send buffer capacity, which bounds the maximum
// packet size the client can send.
func WithBufferSize(n int) ClientOption {
	return func(c *clientConfig) {
		c.bufferSize = n
	}
}

// WithMulticastTTL sets the multicast TTL applied when the destination is a
// multicast group.
func WithMulticastTTL(ttl int) ClientOption {
	return func(c *clientConfig) {
		c.multicastTTL = ttl
	}
}

// WithMetrics counts sent packets and bytes on the given Metrics.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// Dial creates a new Client sending to the given host:port. Destinations in
// 224.0.0.0/4 get the multicast TTL applied to the socket.
func Dial(addr string, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{
		bufferSize:   DefaultBufferSize,
		multicastTTL: DefaultMulticastTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("osc: dial %s: %w", addr, err)
	}

	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("osc: dial %s: %w", addr, err)
	}

	if raddr.IP.IsMulticast() {
		if err := ipv4.NewPacketConn(conn).SetMulticastTTL(cfg.multicastTTL); err != nil {
			conn.Close()
			return nil, fmt.Errorf("osc: dial %s: set multicast ttl: %w", addr, err)
		}
	}

	return &Client{
		conn:    conn,
		buf:     make([]byte, cfg.bufferSize),
		metrics: cfg.metrics,
	}, nil
}

// Send builds msg into the client's buffer and transmits exactly the built
// prefix. It returns the number of bytes the transport reports as sent.
// There is no retry or queueing; build and transport failures surface
// immediately.
func (c *Client) Send(msg *Message) (int, error) {
	n, err := BuildPacket(msg, c.buf)
	if err != nil {
		return 0, err
	}

	sent, err := c.conn.Write(c.buf[:n])
	if err != nil {
		return sent, fmt.Errorf("osc: send: %w", err)
	}
	if c.metrics != nil {
		c.metrics.PacketsSent.Inc()
		c.metrics.BytesSent.Add(float64(sent))
	}
	return sent, nil
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	return c.conn.Close()
}

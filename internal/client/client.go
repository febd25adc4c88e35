package client

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/eternalApril/starlight/internal/resp"
	"go.uber.org/zap"
)

// Options tune a single connection. Zero timeouts disable the
// corresponding deadline.
type Options struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client is one connection to a RESP server. The exchange is strictly
// half duplex: each Send writes one encoded command and reads exactly
// one full reply before the next command goes out, a mutex enforces
// that ordering when the client is shared.
type Client struct {
	conn net.Conn
	dec  bufferedReader
	log  *zap.Logger
	opts Options
	mu   sync.Mutex
}

// bufferedReader is the decoder side the client needs: values off the
// stream, plus how many bytes arrived beyond the message just read.
type bufferedReader interface {
	resp.Reader
	Buffered() int
}

// Dial connects to a RESP server at addr (host:port).
func Dial(ctx context.Context, addr string, opts Options, log *zap.Logger) (*Client, error) {
	log.Info("connecting", zap.String("addr", addr))

	d := net.Dialer{Timeout: opts.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	log.Info("connected", zap.String("addr", addr))

	return &Client{
		conn: conn,
		dec:  resp.NewDecoder(conn),
		log:  log,
		opts: opts,
	}, nil
}

// Send encodes a space-separated command line, writes it and reads the
// one reply the server owes for it.
func (c *Client) Send(ctx context.Context, command string) (resp.Reply, error) {
	wire, err := resp.EncodeCommand(command)
	if err != nil {
		return resp.Reply{}, err
	}

	c.log.Debug("sending command", zap.String("command", command))

	return c.roundTrip(ctx, wire)
}

// Do sends a command from already-split arguments, so individual
// arguments may contain spaces or arbitrary bytes.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Reply, error) {
	wire, err := resp.EncodeArgs(args...)
	if err != nil {
		return resp.Reply{}, err
	}

	if len(args) > 0 && c.log.Core().Enabled(zap.DebugLevel) {
		c.log.Debug("sending command", zap.String("command", args[0]))
	}

	return c.roundTrip(ctx, wire)
}

func (c *Client) roundTrip(ctx context.Context, wire []byte) (resp.Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(c.deadline(ctx, c.opts.WriteTimeout)); err != nil {
		return resp.Reply{}, err
	}
	if _, err := c.conn.Write(wire); err != nil {
		return resp.Reply{}, err
	}

	if err := c.conn.SetReadDeadline(c.deadline(ctx, c.opts.ReadTimeout)); err != nil {
		return resp.Reply{}, err
	}
	value, err := c.dec.Read()
	if err != nil {
		return resp.Reply{}, err
	}

	// Half duplex means one reply per command: bytes already buffered
	// past this reply mean the server is ahead of the conversation.
	if n := c.dec.Buffered(); n > 0 {
		c.log.Warn("unread bytes after reply", zap.Int("bytes", n))
	}

	reply := resp.Classify(value)
	if reply.Failed {
		c.log.Debug("server reported failure", zap.String("message", reply.Message))
	}
	return reply, nil
}

// deadline resolves the earlier of the configured timeout and the
// context deadline. The zero time means no deadline.
func (c *Client) deadline(ctx context.Context, timeout time.Duration) time.Time {
	var t time.Time
	if timeout > 0 {
		t = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (t.IsZero() || d.Before(t)) {
		t = d
	}
	return t
}

// Close terminates the underlying network connection
func (c *Client) Close() error {
	return c.conn.Close()
}

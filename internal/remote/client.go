package remote

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned by Send after Close
	ErrClosed = errors.New("client closed")
)

// Status of the connection to the remote peer
type Status int

const (
	Connecting Status = iota
	Open
	Closed
	Error
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Options configure a Client
type Options struct {
	// OnStatus is called (from the client goroutine) on every status change
	OnStatus func(Status, error)

	// Logger, slog.Default() if not given
	Logger *slog.Logger

	// Queue is how many snapshots may wait to be sent, default 16
	Queue int

	// DialTimeout for each connection attempt, default 5s
	DialTimeout time.Duration
}

// Client streams snapshots to a websocket peer, one text message per
// snapshot, over a persistent connection.
//
// Send never blocks on the network; when the queue is full the oldest
// waiting snapshot is dropped, since each snapshot replaces the last.
// A failed connection is retried on the next snapshot.
type Client struct {
	url  string
	opts Options
	log  *slog.Logger

	queue  chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	lock   sync.Mutex
	closed bool
	status Status
}

// Dial returns a client for addr & starts connecting in the background.
// addr is either a ws:// (or wss://) url or a host:port, which is dialled
// as ws://host:port.
func Dial(addr string, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	o := *opts
	if o.Queue <= 0 {
		o.Queue = 16
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	url := Endpoint(addr)
	c := &Client{
		url:    url,
		opts:   o,
		log:    logger.With(slog.String("component", "remote"), slog.String("url", url)),
		queue:  make(chan []byte, o.Queue),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		status: Closed,
	}

	go c.run()

	return c
}

// Status returns the last reported status
func (c *Client) Status() Status {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.status
}

// Send queues a snapshot for the peer.
func (c *Client) Send(snapshot []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrClosed
	}

	frame := append([]byte(nil), snapshot...)
	for {
		select {
		case c.queue <- frame:
			return nil
		default:
		}
		// full; drop the oldest
		select {
		case <-c.queue:
			c.log.Debug("dropped stale snapshot")
		default:
		}
	}
}

// Close stops the client & closes the connection. Waiting snapshots are
// discarded.
func (c *Client) Close() error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return nil
	}
	c.closed = true
	c.lock.Unlock()

	c.cancel()
	<-c.done
	return nil
}

func (c *Client) setStatus(s Status, err error) {
	c.lock.Lock()
	c.status = s
	c.lock.Unlock()

	if err != nil {
		c.log.Error("sync failed", "status", s.String(), "err", err)
	} else {
		c.log.Debug("sync status", "status", s.String())
	}
	if c.opts.OnStatus != nil {
		c.opts.OnStatus(s, err)
	}
}

func (c *Client) connect() (*websocket.Conn, error) {
	c.setStatus(Connecting, nil)

	d := websocket.Dialer{HandshakeTimeout: c.opts.DialTimeout}
	conn, resp, err := d.DialContext(c.ctx, c.url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		err = errors.Wrapf(err, "connecting to %s", c.url)
		c.setStatus(Error, err)
		return nil, err
	}

	c.setStatus(Open, nil)
	return conn, nil
}

func (c *Client) run() {
	defer close(c.done)

	var conn *websocket.Conn

	defer func() {
		if conn != nil {
			closeConn(conn)
		}
		c.setStatus(Closed, nil)
	}()

	conn, _ = c.connect()

	for {
		select {
		case <-c.ctx.Done():
			return
		case frame := <-c.queue:
			if conn == nil {
				var err error
				conn, err = c.connect()
				if err != nil {
					continue
				}
			}

			conn.SetWriteDeadline(time.Now().Add(c.opts.DialTimeout))
			err := conn.WriteMessage(websocket.TextMessage, frame)
			if err != nil {
				c.setStatus(Error, errors.Wrap(err, "sending snapshot"))
				conn.Close()
				conn = nil
			}
		}
	}
}

// closeConn says goodbye to the peer & drops the connection
func closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	conn.Close()
}

// Endpoint returns the websocket url for addr
func Endpoint(addr string) string {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return addr
	}
	return "ws://" + addr
}

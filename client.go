package main

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/horgh/irc"
)

// outboundQueueSize is how many pending outbound lines a client may have
// buffered before we consider it unable to keep up. Bounding it keeps one
// slow reader from growing the process's memory without limit.
const outboundQueueSize = 100

// maxInboundLineLength bounds a single pending (not yet CR-LF-terminated)
// inbound line. This reuses the vendored irc package's own protocol line
// length constant rather than inventing a new one.
const maxInboundLineLength = irc.MaxLineLength

// Client holds everything about one connection: its identity, registration
// progress, and the byte buffers the line framer and writer operate on.
//
// Only the event loop goroutine ever reads or writes the fields below other
// than WriteChan and the unexported conn; readLoop and writeLoop move bytes
// but never touch shared state.
type Client struct {
	ID uint64

	conn net.Conn
	IP   string

	// WriteChan is how the event loop hands pre-formatted lines (without
	// CR-LF; writeLoop appends it) to this client's writer goroutine. It is
	// this client's outbound buffer: the channel's FIFO order is the "send
	// offset only advances" invariant.
	WriteChan chan []byte

	// SendQueueExceeded is set once WriteChan was found full. From then on
	// every further line for this client is dropped; what's already queued
	// is still flushed. Nothing disconnects the client because of it.
	SendQueueExceeded bool

	Authenticated bool
	Registered    bool

	// Nick is not canonicalized; comparison for uniqueness is an exact
	// string match per the wire protocol's case-sensitive mandate.
	Nick string
	User string
	Real string

	// inbound is the line framer's pending-bytes buffer. It is only ever
	// appended to and sliced from the front; it never exceeds one partial
	// line beyond the last CR-LF it has yielded.
	inbound []byte

	// Channels is the set of channels this client currently belongs to,
	// keyed by canonical channel name.
	Channels map[string]*Channel

	LastActivity time.Time
}

func newClient(id uint64, conn net.Conn) *Client {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}

	return &Client{
		ID:           id,
		conn:         conn,
		IP:           host,
		WriteChan:    make(chan []byte, outboundQueueSize),
		Channels:     map[string]*Channel{},
		LastActivity: time.Now(),
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%d %s", c.ID, c.IP)
}

// nickUhost renders this client's prefix for messages it originates:
// nick!user@host.
func (c *Client) nickUhost() string {
	return fmt.Sprintf("%s!%s@%s", c.Nick, c.User, c.IP)
}

// maybeQueueMessage enqueues a pre-encoded line without its CR-LF onto the
// client's outbound channel. If the channel is full we don't block the
// event loop; we drop the line and set SendQueueExceeded instead.
func (c *Client) maybeQueueMessage(line []byte) {
	if c.SendQueueExceeded {
		return
	}

	select {
	case c.WriteChan <- line:
	default:
		c.SendQueueExceeded = true
	}
}

// readLoop performs blocking reads and forwards each chunk read as an
// eventClientMessage. On any read error (including orderly close, which
// surfaces as io.EOF) it sends one eventDeadClient and returns.
func (c *Client) readLoop(events chan<- Event) {
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			events <- Event{Type: eventClientMessage, Client: c, Data: data}
		}
		if err != nil {
			events <- Event{Type: eventDeadClient, Client: c, Reason: "Client disconnected"}
			return
		}
	}
}

// writeLoop drains the client's outbound channel and writes each line,
// appending CR-LF, retrying partial writes until the line is fully sent or
// an error occurs. It closes the connection once the channel is drained so
// that every message enqueued before disconnection is flushed first.
func (c *Client) writeLoop(events chan<- Event, logger *log.Logger) {
	for line := range c.WriteChan {
		line = append(line, '\r', '\n')
		for len(line) > 0 {
			n, err := c.conn.Write(line)
			if err != nil {
				logger.Printf("client %s: write error: %s", c, err)
				events <- Event{Type: eventDeadClient, Client: c, Reason: "Client disconnected"}
				break
			}
			line = line[n:]
		}
	}

	if err := c.conn.Close(); err != nil {
		logger.Printf("client %s: error closing connection: %s", c, err)
	}
}

// appendInbound appends newly read bytes to the inbound buffer.
func (c *Client) appendInbound(data []byte) {
	c.inbound = append(c.inbound, data...)
}

// takeCompleteLines extracts every complete CR-LF terminated line currently
// buffered, in order, leaving any trailing partial line in place.
func (c *Client) takeCompleteLines() []string {
	var lines []string
	for {
		i := indexCRLF(c.inbound)
		if i < 0 {
			break
		}
		lines = append(lines, string(c.inbound[:i]))
		c.inbound = c.inbound[i+2:]
	}
	return lines
}

func indexCRLF(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == '\r' && buf[i+1] == '\n' {
			return i
		}
	}
	return -1
}

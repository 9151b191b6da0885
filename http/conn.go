package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/google/uuid"

	"github.com/freekieb7/hearth/scan"
)

// connCtx is the per-connection state: the bounded read buffer the request is
// framed from and the buffer the response is serialized into.
type connCtx struct {
	id   uuid.UUID
	conn net.Conn
	buf  []byte
	n    int
	out  []byte
}

func (c *connCtx) reset(conn net.Conn) {
	c.id = uuid.New()
	c.conn = conn
	c.n = 0
	c.out = c.out[:0]
}

// readRequest reads until the buffer holds a blank line, the buffer is full
// or the peer stops sending. Requests larger than the buffer are truncated.
func (c *connCtx) readRequest() ([]byte, error) {
	for c.n < len(c.buf) {
		m, err := c.conn.Read(c.buf[c.n:])
		from := max(0, c.n-len(scan.CRLFCRLF)+1)
		c.n += m
		if bytes.Contains(c.buf[from:c.n], scan.CRLFCRLF) {
			break
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
	}

	if c.n == 0 {
		return nil, ErrEmptyRequest
	}
	return c.buf[:c.n], nil
}

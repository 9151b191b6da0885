package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	// streamAcceptTimeout bounds how long a new connection may take to open
	// its request stream.
	streamAcceptTimeout = 5 * time.Second

	// closeLinger is how long the server keeps a connection open after
	// finishing the response stream, so the peer can read it before
	// CONNECTION_CLOSE arrives.
	closeLinger = 2 * time.Second

	codeOK           quic.ApplicationErrorCode = 0x0
	codeNoStream     quic.ApplicationErrorCode = 0x1
	codeShuttingDown quic.ApplicationErrorCode = 0x2
)

// QUICListener adapts a QUIC listener to net.Listener. Accept returns the
// first stream of each new connection.
type QUICListener struct {
	ln     *quic.Listener
	ctx    context.Context
	cancel context.CancelFunc
	conns  chan net.Conn
	once   sync.Once
}

// ListenQUIC listens for QUIC connections on the UDP address addr. The TLS
// config must carry a certificate; ALPN is added when missing.
func ListenQUIC(addr string, tlsConfig *tls.Config) (*QUICListener, error) {
	ln, err := quic.ListenAddr(addr, withALPN(tlsConfig), &quic.Config{
		MaxIdleTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create QUIC listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &QUICListener{
		ln:     ln,
		ctx:    ctx,
		cancel: cancel,
		conns:  make(chan net.Conn),
	}
	go l.run()
	return l, nil
}

func (l *QUICListener) run() {
	for {
		conn, err := l.ln.Accept(l.ctx)
		if err != nil {
			if l.ctx.Err() == nil {
				slog.Warn("quic accept failed", slog.Any("error", err))
				l.Close()
			}
			return
		}
		go l.acceptStream(conn)
	}
}

func (l *QUICListener) acceptStream(conn quic.Connection) {
	ctx, cancel := context.WithTimeout(l.ctx, streamAcceptTimeout)
	defer cancel()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		conn.CloseWithError(codeNoStream, "no request stream")
		return
	}

	select {
	case l.conns <- &streamConn{Stream: stream, conn: conn, linger: closeLinger}:
	case <-l.ctx.Done():
		conn.CloseWithError(codeShuttingDown, "server shutting down")
	}
}

// Accept waits for the next connection's request stream.
func (l *QUICListener) Accept() (net.Conn, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *QUICListener) Close() error {
	var err error
	l.once.Do(func() {
		l.cancel()
		err = l.ln.Close()
	})
	return err
}

func (l *QUICListener) Addr() net.Addr {
	return l.ln.Addr()
}

// DialQUIC opens a QUIC connection to addr and returns its first stream as a
// net.Conn. Closing it closes the whole connection.
func DialQUIC(ctx context.Context, addr string, tlsConfig *tls.Config) (net.Conn, error) {
	conn, err := quic.DialAddr(ctx, addr, withALPN(tlsConfig), &quic.Config{
		MaxIdleTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dial QUIC connection: %w", err)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(codeNoStream, "")
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return &streamConn{Stream: stream, conn: conn}, nil
}

// streamConn is a single QUIC stream presented as a connection.
type streamConn struct {
	quic.Stream
	conn   quic.Connection
	linger time.Duration
}

func (c *streamConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *streamConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Close finishes the send side of the stream and closes the connection,
// after the linger period when one is set.
func (c *streamConn) Close() error {
	err := c.Stream.Close()
	if c.linger <= 0 {
		return errors.Join(err, c.conn.CloseWithError(codeOK, ""))
	}

	go func() {
		select {
		case <-c.conn.Context().Done():
		case <-time.After(c.linger):
			c.conn.CloseWithError(codeOK, "")
		}
	}()
	return err
}

func withALPN(tlsConfig *tls.Config) *tls.Config {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{}
	}
	if slices.Contains(tlsConfig.NextProtos, ALPN) {
		return tlsConfig
	}
	tlsConfig = tlsConfig.Clone()
	tlsConfig.NextProtos = append(tlsConfig.NextProtos, ALPN)
	return tlsConfig
}

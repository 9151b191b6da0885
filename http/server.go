package http

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/freekieb7/hearth/transport"
)

// Server accepts connections and serves exactly one request on each.
//
// By default connections are served one after another on the accepting
// goroutine, so a slow client holds up everyone behind it. With Concurrent
// set, up to Workers connections are served in parallel.
type Server struct {
	Name   string
	Router *Router

	ReadBufferSize int
	Concurrent     bool
	Workers        int

	// Zero means no deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Logger *slog.Logger
	Tracer trace.Tracer
	Meter  metric.Meter

	initOnce sync.Once
	initErr  error
	pool     *connPool
	metrics  *serverMetrics

	mu        sync.Mutex
	listeners map[net.Listener]struct{}
	closed    atomic.Bool
	wg        sync.WaitGroup
}

func NewServer(name string, router *Router) *Server {
	return &Server{
		Name:           name,
		Router:         router,
		ReadBufferSize: DefaultReadBufferSize,
		Workers:        DefaultWorkers,
	}
}

func (s *Server) init() error {
	s.initOnce.Do(func() {
		if s.Router == nil {
			s.Router = NewRouter()
		}
		if s.Logger == nil {
			s.Logger = slog.Default()
		}
		if s.Tracer == nil {
			s.Tracer = otel.Tracer(instrumentationName)
		}
		if s.Meter == nil {
			s.Meter = otel.Meter(instrumentationName)
		}

		size := 1
		if s.Concurrent {
			size = max(1, cmp.Or(s.Workers, DefaultWorkers))
		}
		readBufferSize := max(len(crlf)*2, cmp.Or(s.ReadBufferSize, DefaultReadBufferSize))
		s.pool = newConnPool(size, readBufferSize)
		s.metrics, s.initErr = newServerMetrics(s.Meter)
	})
	return s.initErr
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := transport.ListenTCP(ctx, addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done or Shutdown is
// called, then returns ErrServerClosed. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if err := s.init(); err != nil {
		return err
	}
	if !s.track(listener) {
		listener.Close()
		return ErrServerClosed
	}
	defer s.untrack(listener)

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.Logger.Info("server listening",
		"name", s.Name,
		"addr", addrString(listener.Addr()),
		"concurrent", s.Concurrent,
	)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			s.Logger.Warn("accept failed", "error", err)
			continue
		}

		c, err := s.acquire(ctx)
		if err != nil {
			conn.Close()
			return ErrServerClosed
		}

		s.wg.Add(1)
		if !s.Concurrent {
			s.serve(ctx, c, conn)
			continue
		}
		go s.serve(ctx, c, conn)
	}
}

// ServeConn serves the single request carried by conn and closes it.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	if err := s.init(); err != nil {
		conn.Close()
		return err
	}
	c, err := s.acquire(ctx)
	if err != nil {
		conn.Close()
		return err
	}
	s.wg.Add(1)
	return s.serve(ctx, c, conn)
}

// Shutdown stops accepting and waits for in-flight connections to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)

	s.mu.Lock()
	for listener := range s.listeners {
		listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) acquire(ctx context.Context) (*connCtx, error) {
	for {
		if s.closed.Load() {
			return nil, ErrServerClosed
		}
		c, err := s.pool.acquire()
		if err == nil {
			return c, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(acquireBackoff):
		}
	}
}

func (s *Server) serve(ctx context.Context, c *connCtx, conn net.Conn) error {
	defer s.wg.Done()
	defer s.pool.release(c)
	defer conn.Close()

	c.reset(conn)
	start := time.Now()

	s.metrics.active.Add(ctx, 1)
	defer s.metrics.active.Add(ctx, -1)

	ctx, span := s.Tracer.Start(ctx, "hearth.request",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("hearth.conn.id", c.id.String()),
			attribute.String("network.peer.address", addrString(conn.RemoteAddr())),
		))
	defer span.End()

	logger := s.Logger.With("conn", c.id.String(), "remote", addrString(conn.RemoteAddr()))

	if s.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}
	raw, err := c.readRequest()
	if err != nil {
		return s.fail(ctx, span, logger, "read", err)
	}

	req, err := ParseRequest(raw)
	if err != nil {
		return s.fail(ctx, span, logger, "parse", err)
	}
	span.SetAttributes(
		attribute.String("http.request.method", req.Method().String()),
		attribute.String("url.path", req.Path()),
	)

	res := s.Router.Dispatch(req)
	if res == nil {
		logger.Warn("handler returned no response", "path", req.Path())
		res = NewResponse()
	}
	if _, ok := res.Header(HeaderHost); !ok {
		res = res.Clone().WithHeader(HeaderHost, addrString(conn.LocalAddr()))
	}

	c.out = res.AppendTo(c.out[:0])
	if s.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}
	if _, err := conn.Write(c.out); err != nil {
		return s.fail(ctx, span, logger, "write", fmt.Errorf("write response: %w", err))
	}

	span.SetAttributes(attribute.Int("http.response.status_code", int(res.Status())))
	s.metrics.request(ctx, req, res)
	s.metrics.observe(ctx, start)
	logger.Debug("request served",
		"method", req.Method().String(),
		"path", req.Path(),
		"status", int(res.Status()),
		"bytes", len(c.out),
	)
	return nil
}

func (s *Server) fail(ctx context.Context, span trace.Span, logger *slog.Logger, reason string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.failure(ctx, reason)

	if errors.Is(err, ErrEmptyRequest) {
		logger.Debug("connection closed without a request")
	} else {
		logger.Warn("dropping connection", "reason", reason, "error", err)
	}
	return err
}

func (s *Server) track(listener net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	if s.listeners == nil {
		s.listeners = make(map[net.Listener]struct{})
	}
	s.listeners[listener] = struct{}{}
	return true
}

func (s *Server) untrack(listener net.Listener) {
	s.mu.Lock()
	delete(s.listeners, listener)
	s.mu.Unlock()
	listener.Close()
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

// Package probe sends a single request to a running server and reports what
// came back. It is used by the probe command to smoke-test a deployment.
package probe

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/freekieb7/hearth/http"
	"github.com/freekieb7/hearth/transport"
)

const DefaultTimeout = 5 * time.Second

type Result struct {
	Proto    string
	Status   int
	Headers  map[string]string
	Body     []byte
	Duration time.Duration
}

// Client probes over TCP through net/http, with spans recorded by otelhttp.
type Client struct {
	client *nethttp.Client
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &nethttp.Client{
			Transport: otelhttp.NewTransport(nethttp.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

func (c *Client) Do(ctx context.Context, method, url string, body []byte) (*Result, error) {
	req, err := nethttp.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}
	return &Result{
		Proto:    resp.Proto,
		Status:   resp.StatusCode,
		Headers:  headers,
		Body:     data,
		Duration: time.Since(start),
	}, nil
}

// QUIC sends req on a new QUIC connection to addr.
func QUIC(ctx context.Context, addr string, req *http.Request, tlsConfig *tls.Config) (*Result, error) {
	start := time.Now()
	conn, err := transport.DialQUIC(ctx, addr, tlsConfig)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	if _, err := conn.Write(req.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	res, err := http.ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	return &Result{
		Proto:    res.Version().String(),
		Status:   int(res.Status()),
		Headers:  res.Headers(),
		Body:     res.Body(),
		Duration: time.Since(start),
	}, nil
}

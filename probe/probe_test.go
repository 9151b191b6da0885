package probe

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freekieb7/hearth/http"
	"github.com/freekieb7/hearth/transport"
)

func startServer(t *testing.T, listener net.Listener) {
	t.Helper()
	router := http.NewRouter().
		Get("/hello", http.Text("get")).
		Post("/post", http.Text("posted"))
	srv := http.NewServer("probe-test", router)
	srv.Concurrent = true
	srv.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestClientDo(t *testing.T) {
	listener, err := transport.ListenTCP(context.Background(), "127.0.0.1:0")
	require.NoError(t, err)
	startServer(t, listener)
	base := "http://" + listener.Addr().String()

	client := New(2 * time.Second)
	ctx := context.Background()

	res, err := client.Do(ctx, "GET", base+"/hello", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, "HTTP/1.1", res.Proto)
	assert.Equal(t, "get\r\n", string(res.Body))
	assert.Equal(t, http.MimeTextPlain, res.Headers["Content-Type"])

	res, err = client.Do(ctx, "POST", base+"/post", nil)
	require.NoError(t, err)
	assert.Equal(t, "posted\r\n", string(res.Body))

	res, err = client.Do(ctx, "GET", base+"/missing", nil)
	require.NoError(t, err)
	assert.Equal(t, 404, res.Status)
	assert.Equal(t, "404 Not Found\r\n", string(res.Body))
}

func TestClientDoBadURL(t *testing.T) {
	_, err := New(0).Do(context.Background(), "GET", "://nope", nil)
	assert.ErrorContains(t, err, "failed to build request")
}

func TestQUIC(t *testing.T) {
	tlsConfig, err := transport.SelfSignedTLSConfig("127.0.0.1")
	require.NoError(t, err)
	listener, err := transport.ListenQUIC("127.0.0.1:0", tlsConfig)
	require.NoError(t, err)
	startServer(t, listener)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := http.NewRequest().WithPath("/hello")
	res, err := QUIC(ctx, listener.Addr().String(), req, &tls.Config{InsecureSkipVerify: true})
	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, "get\r\n", string(res.Body))
	assert.Equal(t, "close", res.Headers["Connection"])
}

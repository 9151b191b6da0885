package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freekieb7/hearth/config"
	"github.com/freekieb7/hearth/http"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "--config", tempConfig(t), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hearth dev ("), out)
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, "--config", tempConfig(t), "inspect", "testdata/request.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "method: GET")
	assert.Contains(t, out, "path: /hello")
	assert.Contains(t, out, "type: request")
}

func TestInspectCommandMissingFile(t *testing.T) {
	_, err := execute(t, "--config", tempConfig(t), "inspect", "testdata/absent.txt")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	path := tempConfig(t)

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "addr: 127.0.0.1:8080")

	out, err = execute(t, "--config", path, "config", "validate")
	require.NoError(t, err)
	assert.Equal(t, "config is valid\n", out)
}

func TestConfigValidateReportsViolations(t *testing.T) {
	out, err := execute(t, "--config", "../config/testdata/invalid.yaml", "config", "validate")
	assert.EqualError(t, err, "config is invalid")
	assert.Contains(t, out, `"server.transport"`)
	assert.Contains(t, out, `"routes[0].method"`)
}

func startServer(t *testing.T, mutate func(*config.Config)) net.Addr {
	t.Helper()
	c := config.DefaultConfig.Clone()
	c.Server.Addr = "127.0.0.1:0"
	if mutate != nil {
		mutate(c)
	}
	require.NoError(t, c.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, c, ready) }()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return addr
}

func TestServeAndProbe(t *testing.T) {
	addr := startServer(t, nil)
	base := "http://" + addr.String()
	cfgPath := tempConfig(t)

	testCases := []struct {
		args []string
		want []string
	}{
		{[]string{base + "/"}, []string{"HTTP/1.1 200", "Server: hearth/dev", "\nHello, World!\r\n"}},
		{[]string{base + "/hello"}, []string{"Hello, This is a test"}},
		{[]string{"-X", "POST", base + "/post"}, []string{"Hello, World\r\n"}},
		{[]string{"-X", "POST", base + "/"}, []string{"Hello, POST"}},
		{[]string{"-X", "GET", base + "/health"}, []string{"Content-Type: application/json", `{"status":"ok"}`}},
		{[]string{"-X", "GET", base + "/nope"}, []string{"HTTP/1.1 404", "404 Not Found"}},
	}

	for _, tc := range testCases {
		args := append([]string{"--config", cfgPath, "probe"}, tc.args...)
		out, err := execute(t, args...)
		require.NoError(t, err, strings.Join(tc.args, " "))
		for _, want := range tc.want {
			assert.Contains(t, out, want, strings.Join(tc.args, " "))
		}
	}
}

func TestServeQUICAndProbe(t *testing.T) {
	addr := startServer(t, func(c *config.Config) {
		c.Server.Transport = config.TransportQUIC
		c.Server.Concurrent = true
	})

	out, err := execute(t, "--config", tempConfig(t), "probe", "--quic", "-k", "-X", "GET", "https://"+addr.String()+"/hello")
	require.NoError(t, err)
	assert.Contains(t, out, "HTTP/1.1 200")
	assert.Contains(t, out, "Hello, This is a test")
}

func TestEchoHandler(t *testing.T) {
	req := http.NewRequest().
		WithMethod(http.MethodPost).
		WithPath("/echo").
		WithHeader(http.HeaderContentType, http.MimeApplicationJSON).
		WithBody([]byte(`{"a":1}`))

	res := newRouter(config.DefaultConfig.Clone()).Dispatch(req)
	assert.Equal(t, `{"a":1}`, string(res.Body()))
	ct, _ := res.Header(http.HeaderContentType)
	assert.Equal(t, http.MimeApplicationJSON, ct)
}

func TestServeRejectsInvalidConfig(t *testing.T) {
	_, err := execute(t, "--config", tempConfig(t), "serve", "--transport", "udp")
	assert.ErrorContains(t, err, "invalid config")
}

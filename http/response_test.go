package http

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestNewResponse(t *testing.T) {
	fixedNow(t)

	res := NewResponse()
	assert.Equal(t, StatusOK, res.Status())
	assert.Equal(t, HTTP11, res.Version())
	assert.Equal(t, Headers{
		"Connection":     "close",
		"Content-Length": "0",
		"Content-Type":   "text/plain",
		"Date":           "Tue, 02 Jan 2024 03:04:05 GMT",
	}, res.Headers())
}

func TestNotFound(t *testing.T) {
	fixedNow(t)

	res := NotFound()
	assert.Equal(t, StatusNotFound, res.Status())
	assert.Equal(t, "404 Not Found", string(res.Body()))

	want := "HTTP/1.1 404 Not Found\r\n" +
		"Connection: close\r\n" +
		"Content-Length: 15\r\n" +
		"Content-Type: text/plain\r\n" +
		"Date: Tue, 02 Jan 2024 03:04:05 GMT\r\n" +
		"\r\n" +
		"404 Not Found\r\n"
	assert.Equal(t, want, string(res.Bytes()))
}

func TestResponseWithBodyRecomputesLength(t *testing.T) {
	res := NewResponse().WithBody([]byte("Hello,World"))
	cl, _ := res.Header(HeaderContentLength)
	assert.Equal(t, "13", cl)

	res.WithBody([]byte("x"))
	cl, _ = res.Header(HeaderContentLength)
	assert.Equal(t, "3", cl)

	res.WithHeader("CONTENT-LENGTH", "1000")
	cl, _ = res.Header(HeaderContentLength)
	assert.Equal(t, "3", cl)
	_, ok := res.Header("CONTENT-LENGTH")
	assert.False(t, ok)
}

func TestResponseWithJSON(t *testing.T) {
	res := NewResponse().WithJSON(map[string]any{"status": "ok"})
	assert.Equal(t, StatusOK, res.Status())
	assert.Equal(t, `{"status":"ok"}`, string(res.Body()))
	ct, _ := res.Header(HeaderContentType)
	assert.Equal(t, MimeApplicationJSON, ct)

	res = NewResponse().WithJSON(math.Inf(1))
	assert.Equal(t, StatusInternalServerError, res.Status())
	assert.Equal(t, "Internal Server Error", string(res.Body()))
}

func TestResponseClone(t *testing.T) {
	res := NewResponse().WithText("shared")
	clone := res.Clone().WithHeader("Host", "127.0.0.1:8080").WithStatus(StatusAccepted)

	_, ok := res.Header("Host")
	assert.False(t, ok)
	assert.Equal(t, StatusOK, res.Status())
	assert.Equal(t, StatusAccepted, clone.Status())
	assert.Equal(t, "shared", string(clone.Body()))
}

func TestResponseRoundTrip(t *testing.T) {
	fixedNow(t)

	res := NewResponse().WithStatus(StatusCreated).WithHeader("X-Id", "42").WithText("made")
	parsed, err := ParseResponse(res.Bytes())
	require.NoError(t, err)

	assert.Equal(t, res.Status(), parsed.Status())
	assert.Equal(t, res.Version(), parsed.Version())
	assert.Equal(t, res.Headers(), parsed.Headers())
	assert.Equal(t, "made\r\n", string(parsed.Body()))
	assert.Equal(t, res.ContentLength(), parsed.ContentLength())

	// Parsed bodies carry no builder suffix, so serializing again is stable.
	assert.Equal(t, string(res.Bytes()), string(parsed.Bytes()))
}

func TestResponseStatusLine(t *testing.T) {
	testCases := []struct {
		status  StatusCode
		version Version
		want    string
	}{
		{StatusOK, HTTP11, "HTTP/1.1 200 OK\r\n"},
		{StatusNotFound, HTTP10, "HTTP/1.0 404 Not Found\r\n"},
		{StatusTeapot, HTTP2, "HTTP/2 418 I'm a teapot\r\n"},
		{StatusCode(799), HTTP11, "HTTP/1.1 799 Unknown Status Code\r\n"},
	}

	for _, tc := range testCases {
		res := NewResponse().WithStatus(tc.status).WithVersion(tc.version)
		got := string(res.Bytes()[:len(tc.want)])
		if got != tc.want {
			t.Errorf("status line = %q, want %q", got, tc.want)
		}
	}
}

func BenchmarkResponseAppendTo(b *testing.B) {
	res := NewResponse().WithText("Hello,World")
	dst := make([]byte, 0, 512)
	for b.Loop() {
		dst = res.AppendTo(dst[:0])
	}
}

package http

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage(t *testing.T) {
	head, body, err := SplitMessage([]byte("GET / HTTP/1.1\r\nHost: a\r\n\r\nHello,World\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "GET / HTTP/1.1\r\nHost: a", string(head))
	assert.Equal(t, "Hello,World\r\n", string(body))

	_, body, err = SplitMessage([]byte("GET / HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	assert.Empty(t, body)

	_, _, err = SplitMessage([]byte("GET / HTTP/1.1\r\nHost: a\r\n"))
	assert.ErrorIs(t, err, ErrFraming)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "split message", parseErr.Op)
}

func TestSplitStartLine(t *testing.T) {
	line, rest := SplitStartLine([]byte("GET / HTTP/1.1\r\nA: 1\r\nB: 2"))
	assert.Equal(t, "GET / HTTP/1.1", string(line))
	assert.Equal(t, "A: 1\r\nB: 2", string(rest))

	line, rest = SplitStartLine([]byte("GET / HTTP/1.1"))
	assert.Equal(t, "GET / HTTP/1.1", string(line))
	assert.Empty(t, rest)
}

func TestParseStartLine(t *testing.T) {
	testCases := []struct {
		line    string
		first   string
		second  string
		third   string
		wantErr error
	}{
		{"GET / HTTP/1.1", "GET", "/", "HTTP/1.1", nil},
		{"POST /post HTTP/1.0", "POST", "/post", "HTTP/1.0", nil},
		{"HTTP/1.1 404 Not Found", "HTTP/1.1", "404", "Not Found", nil},
		{"GARBAGE", "", "", "", ErrParseHeader},
		{"GET /", "", "", "", ErrInvalidVersion},
		{" / HTTP/1.1", "", "", "", ErrInvalidMethod},
		{"GET  HTTP/1.1", "", "", "", ErrInvalidURI},
		{"GET / ", "", "", "", ErrInvalidVersion},
	}

	for _, tc := range testCases {
		first, second, third, err := ParseStartLine([]byte(tc.line))
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("ParseStartLine(%q) err = %v, want %v", tc.line, err, tc.wantErr)
			continue
		}
		if first != tc.first || second != tc.second || third != tc.third {
			t.Errorf("ParseStartLine(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tc.line, first, second, third, tc.first, tc.second, tc.third)
		}
	}
}

func TestParseHeaderLines(t *testing.T) {
	block := []byte("Host: example.com\r\nAccept: */*\r\nbroken line\r\n: no key\r\nX-Colon: a: b\r\n\r\nAccept: text/html")
	got := ParseHeaderLines(block)

	want := Headers{
		"Host":    "example.com",
		"Accept":  "text/html",
		"X-Colon": "a: b",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseHeaderLines mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, ParseHeaderLines(nil))
}

func TestParseRequest(t *testing.T) {
	buf := []byte("POST /echo HTTP/1.0\r\nHost: localhost\r\nContent-Type: text/plain\r\n\r\nHello,World")
	req, err := ParseRequest(buf)
	require.NoError(t, err)

	assert.Equal(t, MethodPost, req.Method())
	assert.Equal(t, "/echo", req.Path())
	assert.Equal(t, HTTP10, req.Version())
	assert.Equal(t, "Hello,World", string(req.Body()))

	host, ok := req.Header("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost", host)

	// The body must not alias the read buffer.
	copy(buf[len(buf)-5:], "XXXXX")
	assert.Equal(t, "Hello,World", string(req.Body()))
}

func TestParseRequestLenient(t *testing.T) {
	req, err := ParseRequest([]byte("BREW /pot HTCPCP/1.0\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, MethodGet, req.Method())
	assert.Equal(t, HTTP11, req.Version())
	assert.Equal(t, "/pot", req.Path())

	req, err = ParseRequest([]byte("GET /\xff HTTP/1.1\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "/�", req.Path())
}

func TestParseRequestErrors(t *testing.T) {
	testCases := []struct {
		name string
		buf  string
		want error
	}{
		{"no blank line", "GET / HTTP/1.1\r\nHost: a\r\n", ErrFraming},
		{"no space", "GARBAGE\r\n\r\n", ErrParseHeader},
		{"two tokens", "GET /\r\n\r\n", ErrInvalidVersion},
		{"empty method", " / HTTP/1.1\r\n\r\n", ErrInvalidMethod},
		{"empty", "", ErrFraming},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tc.buf))
			assert.Nil(t, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseResponse(t *testing.T) {
	res, err := ParseResponse([]byte("HTTP/1.1 201 Created\r\nContent-Length: 4\r\n\r\ndone"))
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status())
	assert.Equal(t, HTTP11, res.Version())
	assert.Equal(t, "done", string(res.Body()))

	res, err = ParseResponse([]byte("HTTP/1.1 204\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, StatusNoContent, res.Status())

	res, err = ParseResponse([]byte("HTTP/1.1 799 Odd\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status())

	_, err = ParseResponse([]byte("HTTP/1.1\r\n\r\n"))
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = ParseResponse([]byte("HTTP/1.1  OK\r\n\r\n"))
	assert.ErrorIs(t, err, ErrParseHeader)
}

func BenchmarkParseRequest(b *testing.B) {
	buf := []byte("GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")
	for b.Loop() {
		if _, err := ParseRequest(buf); err != nil {
			b.Error(err)
		}
	}
}

// Package http is a small from-scratch HTTP/1.1 server: a byte framer that
// turns one read buffer into a Request, an exact-match Router that maps the
// request to a Handler, and a serializer that writes the Response back.
//
// Each connection carries exactly one request and one response. There is no
// keep-alive, pipelining or chunked transfer-encoding.
package http

import "time"

const (
	DefaultReadBufferSize = 4 * 1024 // 4kB
	DefaultWorkers        = 64
	DefaultAddr           = "127.0.0.1:8080"

	// acquireBackoff is how long the accept loop waits for a free connection
	// context when every worker is busy.
	acquireBackoff = time.Millisecond

	instrumentationName = "github.com/freekieb7/hearth/http"
)

package http

import (
	"log/slog"

	"github.com/goccy/go-json"
)

// Response is produced by a handler and serialized by the server.
// Whenever the body is set, Content-Length is recomputed so the two never
// disagree.
type Response struct {
	message
	status StatusCode
}

// NewResponse returns a 200 response carrying the default headers.
func NewResponse() *Response {
	return &Response{
		message: message{version: HTTP11, headers: defaultHeaders()},
		status:  StatusOK,
	}
}

// NotFound returns the response used for unmatched routes.
func NotFound() *Response {
	return NewResponse().WithStatus(StatusNotFound).WithBody([]byte("404 Not Found"))
}

func (res *Response) Status() StatusCode {
	return res.status
}

func (res *Response) WithStatus(status StatusCode) *Response {
	res.status = status
	return res
}

func (res *Response) WithVersion(version Version) *Response {
	res.version = version
	return res
}

// WithHeader sets a header. Content-Length cannot be set this way; it always
// follows the body.
func (res *Response) WithHeader(key, value string) *Response {
	res.setHeader(key, value)
	return res
}

// WithBody sets the body. It is serialized followed by CRLF and
// Content-Length is updated to include that suffix.
func (res *Response) WithBody(body []byte) *Response {
	res.setBody(body)
	return res
}

// WithText sets a text/plain body.
func (res *Response) WithText(text string) *Response {
	res.setHeader(HeaderContentType, MimeTextPlain)
	return res.WithBody([]byte(text))
}

// WithJSON sets an application/json body. A value that cannot be encoded
// turns the response into a 500.
func (res *Response) WithJSON(payload any) *Response {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("response: encoding json failed", "error", err)
		return res.WithStatus(StatusInternalServerError).WithText(StatusInternalServerError.Text())
	}
	res.setHeader(HeaderContentType, MimeApplicationJSON)
	return res.WithBody(data)
}

// Clone returns a deep copy of res.
func (res *Response) Clone() *Response {
	return &Response{message: res.message.clone(), status: res.status}
}

// AppendTo appends the wire form of res to dst.
func (res *Response) AppendTo(dst []byte) []byte {
	dst = append(dst, res.version.String()...)
	dst = append(dst, ' ')
	dst = append(dst, res.status.String()...)
	dst = append(dst, crlf...)
	return res.appendTail(dst)
}

// Bytes returns the wire form of res.
func (res *Response) Bytes() []byte {
	return res.AppendTo(make([]byte, 0, 256+len(res.body)))
}

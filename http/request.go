package http

// Request is a parsed or synthesized request. Parsed requests are read-only;
// the With setters exist to build requests by hand, mostly in tests and
// clients.
type Request struct {
	message
	method Method
	path   string
}

// NewRequest returns "GET / HTTP/1.1" with no headers and no body.
func NewRequest() *Request {
	return &Request{
		message: message{version: HTTP11, headers: make(Headers)},
		method:  MethodGet,
		path:    "/",
	}
}

func (req *Request) Method() Method {
	return req.method
}

func (req *Request) Path() string {
	return req.path
}

func (req *Request) WithMethod(method Method) *Request {
	req.method = method
	return req
}

func (req *Request) WithPath(path string) *Request {
	req.path = path
	return req
}

func (req *Request) WithVersion(version Version) *Request {
	req.version = version
	return req
}

// WithHeader sets a header. Content-Length cannot be set this way; it always
// follows the body.
func (req *Request) WithHeader(key, value string) *Request {
	req.setHeader(key, value)
	return req
}

// WithBody sets the body. It is serialized followed by CRLF and
// Content-Length is updated to include that suffix.
func (req *Request) WithBody(body []byte) *Request {
	req.setBody(body)
	return req
}

// AppendTo appends the wire form of req to dst.
func (req *Request) AppendTo(dst []byte) []byte {
	dst = append(dst, req.method.String()...)
	dst = append(dst, ' ')
	dst = append(dst, req.path...)
	dst = append(dst, ' ')
	dst = append(dst, req.version.String()...)
	dst = append(dst, crlf...)
	return req.appendTail(dst)
}

// Bytes returns the wire form of req.
func (req *Request) Bytes() []byte {
	return req.AppendTo(make([]byte, 0, 128+len(req.body)))
}

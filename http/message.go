package http

import "bytes"

// message holds what requests and responses share below the start-line.
type message struct {
	version Version
	headers Headers
	body    []byte
	// bodySet marks a body given through a builder. Such bodies are written
	// with a trailing CRLF, which Content-Length accounts for.
	bodySet bool
}

func (m *message) Version() Version {
	return m.version
}

// Header returns the value stored under key. Keys are case-sensitive.
func (m *message) Header(key string) (string, bool) {
	return m.headers.Get(key)
}

// Headers returns a copy of the header map.
func (m *message) Headers() Headers {
	return m.headers.Clone()
}

// Body returns the body without any framing suffix.
func (m *message) Body() []byte {
	return m.body
}

// ContentLength is the number of bytes written after the header block.
func (m *message) ContentLength() int {
	if m.bodySet {
		return len(m.body) + len(crlf)
	}
	return len(m.body)
}

func (m *message) setHeader(key, value string) {
	if m.headers == nil {
		m.headers = make(Headers)
	}
	if isContentLength(key) {
		setContentLength(m.headers, m.ContentLength())
		return
	}
	m.headers.Set(key, value)
}

func (m *message) setBody(body []byte) {
	if m.headers == nil {
		m.headers = make(Headers)
	}
	m.body = bytes.Clone(body)
	if m.body == nil {
		m.body = []byte{}
	}
	m.bodySet = true
	setContentLength(m.headers, m.ContentLength())
}

func (m *message) appendTail(dst []byte) []byte {
	dst = appendHeaders(dst, m.headers, m.ContentLength())
	dst = append(dst, crlf...)
	dst = append(dst, m.body...)
	if m.bodySet {
		dst = append(dst, crlf...)
	}
	return dst
}

func (m *message) clone() message {
	return message{
		version: m.version,
		headers: m.headers.Clone(),
		body:    bytes.Clone(m.body),
		bodySet: m.bodySet,
	}
}

const crlf = "\r\n"

package http

// Handler turns a request into a response. Every handler shape the router
// accepts is an adapter onto this one method.
type Handler interface {
	Serve(req *Request) *Response
}

// HandlerFunc adapts a function returning a full response.
type HandlerFunc func(req *Request) *Response

func (f HandlerFunc) Serve(req *Request) *Response {
	return f(req)
}

// Text is a handler that always answers with the same text body.
type Text string

func (t Text) Serve(*Request) *Response {
	return NewResponse().WithText(string(t))
}

// TextFunc adapts a function returning a text body.
type TextFunc func(req *Request) string

func (f TextFunc) Serve(req *Request) *Response {
	return NewResponse().WithText(f(req))
}

// JSON returns a handler that always answers with payload encoded as JSON.
func JSON(payload any) Handler {
	return HandlerFunc(func(*Request) *Response {
		return NewResponse().WithJSON(payload)
	})
}

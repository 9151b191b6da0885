package http

// Route identifies a registered handler.
type Route struct {
	Path   string
	Method Method
}

// notFoundHandler answers every request the router has no entry for.
var notFoundHandler Handler = HandlerFunc(func(*Request) *Response {
	return NotFound()
})

package http

import (
	"log/slog"
	"runtime/debug"
)

type Middleware func(next Handler) Handler

// RecoverMiddleware turns a panicking handler into a 500 response.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler) Handler {
		return HandlerFunc(func(req *Request) (res *Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("handler panicked",
						"method", req.Method().String(),
						"path", req.Path(),
						"panic", recovered,
						"stack", string(debug.Stack()),
					)
					res = NewResponse().
						WithStatus(StatusInternalServerError).
						WithText("something went wrong")
				}
			}()

			return next.Serve(req)
		})
	}
}

// HeaderMiddleware sets a header on every response that does not carry it yet.
func HeaderMiddleware(key, value string) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(req *Request) *Response {
			res := next.Serve(req)
			if res == nil {
				return nil
			}
			if _, ok := res.Header(key); !ok {
				res.WithHeader(key, value)
			}
			return res
		})
	}
}

package middleware

import "net/http"

// Chain applies middleware so that they run in the order given, first one outermost.
//
//	handler := Chain(mux,
//	    RequestLogging,      // sees every request
//	    AuthMiddleware(...), // then resolves the session
//	    CSRFProtection(...), // and checks cookie sessions last
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/relayvision/visionlog/internal/ctxkeys"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing one set by a proxy.
// The id is echoed in the response so client reports can be matched to logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			var err error
			id, err = generateRequestID()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithRequestID(r.Context(), id)))
	})
}

// generateRequestID returns 12 random bytes, base64url encoded (16 chars).
func generateRequestID() (string, error) {
	b := make([]byte, 12)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

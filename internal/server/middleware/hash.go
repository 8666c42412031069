package middleware

import (
	"bytes"
	"net/http"

	"github.com/Heidric/hmacsign/internal/crypto"
)

// HashHeader carries the hex HMAC-SHA256 of the response body.
const HashHeader = "HashSHA256"

type hashResponseWriter struct {
	http.ResponseWriter
	buf    *bytes.Buffer
	status int
}

// HashMiddleware computes an HMAC-SHA256 of the response body and adds it to
// the "HashSHA256" response header as a hex string.
func HashMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			hrw := &hashResponseWriter{
				ResponseWriter: w,
				buf:            new(bytes.Buffer),
				status:         http.StatusOK,
			}

			next.ServeHTTP(hrw, r)

			w.Header().Set(HashHeader, crypto.HashSHA256(hrw.buf.Bytes(), key))
			w.WriteHeader(hrw.status)
			_, _ = w.Write(hrw.buf.Bytes())
		})
	}
}

// WriteHeader defers sending the status code until the middleware finishes
// computing the hash and writes the buffered body.
func (w *hashResponseWriter) WriteHeader(code int) {
	w.status = code
}

// Write appends bytes to the internal buffer; the real write happens after
// the hash is computed in the middleware.
func (w *hashResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

package middleware

import (
	"net/http"
)

const (
	// KB is a kilobyte in bytes
	KB int64 = 1024
	// MB is a megabyte in bytes
	MB int64 = 1024 * KB

	// DefaultMaxBodySize limits request bodies on JSON endpoints
	DefaultMaxBodySize = 1 * MB

	// UploadMaxBodySize limits request bodies on the image upload endpoint
	UploadMaxBodySize = 10 * MB
)

// MaxBodySize limits the size of request bodies. Reads past the limit fail
// with a *http.MaxBytesError, which the JSON decoder surfaces to handlers.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				respondPayloadTooLarge(w, r)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

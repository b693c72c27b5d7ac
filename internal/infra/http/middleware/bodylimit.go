package middleware

import (
	"net/http"
	"strings"
)

// BodyLimit limits the request body size to maxBytes. Requests declaring a
// larger Content-Length are rejected up front; otherwise the body reader is
// capped so chunked uploads cannot exceed the limit either.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return BodyLimitWithSkip(maxBytes, nil)
}

// BodyLimitWithSkip behaves like BodyLimit but leaves requests whose path
// starts with any of skipPrefixes uncapped. File upload routes enforce their
// own, larger limit.
func BodyLimitWithSkip(maxBytes int64, skipPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if r.ContentLength > maxBytes {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// Package api implements the Tiwaz JSON API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/starford/tiwaz/internal/checksum"
)

// ETag returns middleware that tags responses with the current dataset
// checksum and answers 304 when the client already holds that version.
// current is called once per request.
func ETag(current func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sum := current()
			if sum == "" {
				next.ServeHTTP(w, r)
				return
			}
			tag := checksum.ETag(sum)
			w.Header().Set("ETag", tag)
			if etagMatches(r.Header.Get("If-None-Match"), tag) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}

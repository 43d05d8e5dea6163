package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders  = "Authorization, Content-Type, Accept, " + RequestIDHeader
	corsExposeHeaders = RequestIDHeader
	corsMaxAge        = "86400"
)

// originSet holds normalized origins; entries carry no trailing slash.
type originSet map[string]struct{}

func newOriginSet(origins []string) originSet {
	set := originSet{}
	for _, o := range origins {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	_, ok := s[origin]
	return origin != "" && ok
}

func setCORSHeaders(hdr http.Header, origin string, preflight bool) {
	hdr.Set("Access-Control-Allow-Origin", origin)
	hdr.Set("Access-Control-Allow-Credentials", "true")
	hdr.Add("Vary", "Origin")
	if preflight {
		hdr.Set("Access-Control-Allow-Methods", corsAllowMethods)
		hdr.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		hdr.Set("Access-Control-Max-Age", corsMaxAge)
		return
	}
	hdr.Set("Access-Control-Expose-Headers", corsExposeHeaders)
}

// CORS answers preflight requests itself and decorates every other
// response for a listed origin. Requests without an Origin, like the
// payment webhook, pass through unchanged.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := newOriginSet(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := origins.allows(origin)

		if r.Method == http.MethodOptions {
			if allowed {
				setCORSHeaders(w.Header(), origin, true)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if allowed {
			setCORSHeaders(w.Header(), origin, false)
		}
		next.ServeHTTP(w, r)
	})
}

package chi

import (
	"net"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// identityFromRequest resolves the caller's identity. A known bearer token
// maps to its configured identity; everything else is anonymous, keyed by
// client IP for rate limiting.
func (s *Server) identityFromRequest(r *http.Request) (identity string, authenticated bool) {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, bearerPrefix) {
		token := auth[len(bearerPrefix):]
		if id, ok := s.apiKeys[token]; ok && id != "" {
			return id, true
		}
	}
	return clientIP(r), false
}

// clientIP extracts the originating address, honoring X-Forwarded-For when
// a proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP rewrites RemoteAddr to the address the trusted proxy in front of
// the shell saw. That proxy appends its peer to X-Forwarded-For, so only the
// right-most hop is taken; anything to its left came from the client. Mount
// it only when such a proxy exists.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := lastForwardedHop(r.Header.Values("X-Forwarded-For")); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

func lastForwardedHop(values []string) string {
	if len(values) == 0 {
		return ""
	}
	hops := strings.Split(values[len(values)-1], ",")
	ip := strings.TrimSpace(hops[len(hops)-1])
	if net.ParseIP(ip) == nil {
		return ""
	}
	return ip
}

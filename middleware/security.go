package middleware

import "net/http"

// securityHeaders are set on every response of the web shell.
var securityHeaders = map[string]string{
	// pages carry no inline script and only ever post back to this origin
	"Content-Security-Policy":      "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self'; img-src 'self' data:; frame-ancestors 'none'; base-uri 'none'; form-action 'self'",
	"Strict-Transport-Security":    "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"Referrer-Policy":              "no-referrer",
	"Cross-Origin-Resource-Policy": "same-site",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Permissions-Policy":           "geolocation=(), microphone=(), camera=(), payment=(), usb=(), bluetooth=()",
}

// SecurityHeaders hardens every response. Pages and API answers depend on
// the caller's token, so shared caches and the back button must not keep
// them.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range securityHeaders {
			h.Set(k, v)
		}
		h.Set("Cache-Control", "no-store")
		h.Set("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}

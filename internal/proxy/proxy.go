package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/baechuer/expense-web/internal/logger"
	"github.com/baechuer/expense-web/middleware"
)

// BearerFunc returns the token to attach for the request, or "".
type BearerFunc func(r *http.Request) string

// New creates a reverse proxy to the API that strips the local prefix,
// attaches the caller's bearer and never forwards browser cookies.
// target: "http://api:5000/api"
// stripPrefix: "/api/data"
// /api/data/Funds -> http://api:5000/api/Funds
func New(target, stripPrefix string, bearer BearerFunc) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.Transport = &middleware.TracingTransport{Base: http.DefaultTransport}
	originalDirector := proxy.Director

	proxy.Director = func(req *http.Request) {
		// 1. Path Rewrite before the director joins the target path
		req.URL.Path = strings.TrimPrefix(req.URL.Path, stripPrefix)
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
		req.URL.RawPath = ""
		originalDirector(req)

		// 2. Host Header: upstream sees a direct call
		req.Host = u.Host

		// 3. Credentials: only the bound bearer goes upstream
		req.Header.Del("Cookie")
		req.Header.Del("Authorization")
		if bearer != nil {
			if token := bearer(req); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		// 4. Header Propagation
		if reqID := middleware.GetRequestID(req.Context()); reqID != "" {
			req.Header.Set(middleware.HeaderXRequestID, reqID)
		}
	}

	// Cookies set by the API would land on this origin.
	proxy.ModifyResponse = func(resp *http.Response) error {
		resp.Header.Del("Set-Cookie")
		return nil
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		reqID := middleware.GetRequestID(r.Context())

		logger.Log.Error().
			Err(err).
			Str("target", target).
			Str("request_id", reqID).
			Msg("upstream_proxy_error")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)

		// Mimic Unified Error Format
		w.Write([]byte(`{"error":{"code":"upstream_unavailable","message":"upstream service unreachable","request_id":"` + reqID + `"}}`))
	}

	return proxy, nil
}

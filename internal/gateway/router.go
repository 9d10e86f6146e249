package gateway

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/phuocthuan2203/libhub-microservices/internal/middleware"
)

// Route maps a path prefix to an upstream service.
type Route struct {
	Prefix   string
	Upstream string
	// Public routes skip the JWT check (register, login, health).
	Public bool
}

func newProxy(upstream string) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy error for %s: %v", r.URL.Path, err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}
	return proxy, nil
}

// NewRouter builds the gateway's mux: one reverse proxy per route,
// JWT checks on protected prefixes, rate limiting across all of them.
func NewRouter(routes []Route, limit func(http.Handler) http.Handler) (*mux.Router, error) {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	for _, route := range routes {
		proxy, err := newProxy(route.Upstream)
		if err != nil {
			return nil, err
		}

		h := proxy
		if !route.Public {
			h = middleware.JWTAuthMiddleware(h)
		}
		h = limit(h)

		prefix := "/" + strings.Trim(route.Prefix, "/")
		r.PathPrefix(prefix).Handler(h)
	}

	return r, nil
}

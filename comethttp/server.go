// Package comethttp adapts a comet.Core to HTTP: it owns routing, query
// parameter parsing, response headers, and the long-poll write loop, the
// same division of labor sseserver draws between its hub and its
// connection/router layers.
package comethttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	comet "github.com/gocomet/cometd"
)

// Server is the primary interface to an HTTP comet relay: a
// *comet.Core plus the routing and wire-format glue around it. Server
// implements http.Handler and can be mounted into an existing mux.
type Server struct {
	core *comet.Core
	conf serverConfig
	mux  http.Handler
}

type serverConfig struct {
	corsAllowOrigins []string
}

// ServerOption configures a Server at construction time.
type ServerOption func(*serverConfig)

// WithCORSAllowOrigins sets the origins allowed to make cross-origin
// requests against sub/pub/etc. The zero value allows none; pass "*"
// to allow any origin.
func WithCORSAllowOrigins(origins ...string) ServerOption {
	return func(c *serverConfig) { c.corsAllowOrigins = origins }
}

// NewServer builds a Server around an already-running core.
func NewServer(core *comet.Core, opts ...ServerOption) *Server {
	s := &Server{core: core}
	for _, opt := range opts {
		opt(&s.conf)
	}
	s.mux = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	if len(s.conf.corsAllowOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.conf.corsAllowOrigins,
			AllowedMethods: []string{"GET"},
		}))
	}
	r.Get("/sub", s.handleSub)
	r.Get("/pub", s.handlePub)
	r.Get("/sign", s.handleSign)
	r.Get("/close", s.handleClose)
	r.Get("/ping", s.handlePing)
	r.Get("/info", s.handleInfo)
	r.Get("/check", s.handleCheck)
	r.Get("/psub", s.handlePSub)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HttpServer is a chi router bound to a listener, with /metrics mounted.
type HttpServer struct {
	*chi.Mux
	srv *http.Server
	l   net.Listener
}

func Http(addr string) (*HttpServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Handle("/metrics", promhttp.Handler())
	s := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler:           mux,
	}

	return &HttpServer{mux, s, l}, nil
}

// Addr returns the bound listener address, useful with ":0".
func (s *HttpServer) Addr() string {
	return s.l.Addr().String()
}

func (s *HttpServer) Serve() error {
	if err := s.srv.Serve(s.l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	defer s.l.Close()
	s.srv.SetKeepAlivesEnabled(false)
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}

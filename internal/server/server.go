package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Heidric/hmacsign/internal/logger"
	"github.com/Heidric/hmacsign/internal/server/middleware"
)

// maxBodySize bounds request bodies accepted by the signing endpoints.
const maxBodySize = 1 << 20

type Signer interface {
	Sign(ctx context.Context, message string) (string, error)
	SignWithKey(ctx context.Context, message, key string) (string, error)
}

type Server struct {
	Srv    *http.Server
	signer Signer
	logger *zerolog.Logger
}

// NewServer wires the signing routes. A non-empty key also signs every
// response body into the HashSHA256 header.
func NewServer(addr, key string, signer Signer, log *zerolog.Logger) *Server {
	if log == nil {
		log = logger.Log
	}

	r := chi.NewRouter()
	s := &Server{
		Srv:    &http.Server{Addr: addr, Handler: r},
		signer: signer,
		logger: log,
	}

	r.Use(logger.Middleware(log))
	r.Use(middleware.HashMiddleware(key))

	r.Get("/ping", s.pingHandler)
	r.Post("/sign", s.signHandler)
	r.Post("/sign/json", s.signJSONHandler)

	r.NotFound(s.notFoundHandler)
	r.MethodNotAllowed(s.methodNotAllowedHandler)

	return s
}

func (s *Server) Run(ctx context.Context, runner *errgroup.Group) {
	s.logger.Info().Str("address", s.Srv.Addr).Msg("Http server started.")

	runner.Go(func() error {
		if err := s.Srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "listen and serve")
		}
		return nil
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	nctx, stop := context.WithTimeout(context.WithoutCancel(ctx), time.Second*10)
	defer stop()

	if err := s.Srv.Shutdown(nctx); err != nil {
		s.logger.Error().Err(err).Msg("Http server shutdown failed.")
		return errors.Wrap(err, "shutdown")
	}

	s.logger.Info().Msg("Http server stopped.")
	return nil
}

func (s *Server) GetRouter() *chi.Mux {
	return s.Srv.Handler.(*chi.Mux)
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/projektwerk/stagehand/pkg/usecase"
	"github.com/projektwerk/stagehand/pkg/utils/logging"
	"github.com/projektwerk/stagehand/pkg/utils/safe"
)

type Server struct {
	router             *chi.Mux
	uc                 *usecase.UseCases
	slackSigningSecret string
	formToken          string
}

type Options func(*Server)

// WithSlackCommand enables the Slack slash command endpoint, guarded by
// signature verification with the given signing secret
func WithSlackCommand(signingSecret string) Options {
	return func(s *Server) {
		s.slackSigningSecret = signingSecret
	}
}

// WithFormHook enables the generic form trigger endpoint, guarded by
// the given shared token
func WithFormHook(token string) Options {
	return func(s *Server) {
		s.formToken = token
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		safe.Write(r.Context(), w, []byte("OK"))
	})

	// Slack slash command endpoint - no auth beyond signature verification
	if s.slackSigningSecret != "" {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/command", slackCommandHandler(s.uc))
		})
	}

	// Generic form trigger endpoint
	if s.formToken != "" {
		r.Post("/hooks/form", formHookHandler(s.uc, s.formToken))
	}

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", listProjectsHandler(s.uc))
		r.Post("/", createProjectHandler(s.uc))
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", getProjectHandler(s.uc))
			r.Put("/", updateProjectHandler(s.uc))
			r.Delete("/", deleteProjectHandler(s.uc))
			r.Get("/connections", listConnectionsHandler(s.uc))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

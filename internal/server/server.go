// Package server wires the site's pages and the article submission endpoint to a chi router.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/metrics"
	"github.com/debemdeboas/typoteka/internal/repository"
	"github.com/debemdeboas/typoteka/internal/routes"
	"github.com/debemdeboas/typoteka/internal/submission"
	"github.com/debemdeboas/typoteka/internal/theme"
)

// Options holds what a Server is built from.
type Options struct {
	Gateway  repository.Gateway
	Ingestor *submission.Ingestor

	// Content holds the templates/ and static/ directories.
	Content fs.FS

	// PictureDir is served under /img/ when set.
	PictureDir string

	Logger zerolog.Logger
}

type Server struct {
	router   chi.Router
	gateway  repository.Gateway
	ingestor *submission.Ingestor
	pages    *pages
	log      zerolog.Logger
}

func NewServer(opts Options) (*Server, error) {
	if opts.Gateway == nil || opts.Ingestor == nil || opts.Content == nil {
		return nil, errors.New("server needs a gateway, an ingestor and content")
	}

	p, err := parsePages(opts.Content)
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(opts.Content, config.StaticLocalDir)
	if err != nil {
		return nil, fmt.Errorf("static content: %w", err)
	}
	if err := hashStatic(static); err != nil {
		return nil, err
	}

	metrics.Init()

	s := &Server{
		gateway:  opts.Gateway,
		ingestor: opts.Ingestor,
		pages:    p,
		log:      opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(secureHeaders)
	r.Use(cacheIt)

	r.Get(routes.Healthz, healthz)
	r.Handle(routes.Metrics, metrics.Handler())

	r.Get(theme.SyntaxCSSPath, theme.SyntaxCSSHandler)
	r.Handle(routes.Static, http.StripPrefix(config.StaticURLPath, http.FileServer(http.FS(static))))
	if opts.PictureDir != "" {
		r.Handle(routes.Pictures, http.StripPrefix(routes.PicturesPrefix, http.FileServer(http.Dir(opts.PictureDir))))
	}

	r.Get(routes.Root, s.serveMain)
	r.Get(routes.My, s.serveMy)
	r.Get(routes.Login, s.serveLogin)
	r.Get(routes.Register, s.serveRegister)

	r.Route(routes.Articles, func(r chi.Router) {
		r.Get(routes.ArticleAdd, s.serveNewArticle)
		r.Post(routes.ArticleAdd, s.createArticle)
		r.Get(routes.Categories, s.serveCategories)
		r.Get(routes.CategoryArticles, s.serveCategoryArticles)
		r.Get(routes.ArticleEdit, s.serveEditArticle)
		r.Get(routes.ArticleView, s.serveArticle)
	})

	r.NotFound(s.serveNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	})

	s.router = r
	return s, nil
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HCType, "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}

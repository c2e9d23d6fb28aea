package server

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/model"
	"github.com/debemdeboas/typoteka/internal/routes"
	"github.com/debemdeboas/typoteka/internal/util"
)

var pageTemplates = []string{
	config.TemplateMain,
	config.TemplateMy,
	config.TemplateLogin,
	config.TemplateNewPost,
	config.TemplatePost,
	config.TemplateAllCategories,
	config.TemplateArticlesByCategory,
	config.TemplateNotFound,
}

// pages holds one template set per page, each combined with the layout.
type pages struct {
	sets map[string]*template.Template
}

func parsePages(content fs.FS) (*pages, error) {
	p := &pages{sets: make(map[string]*template.Template, len(pageTemplates))}
	layout := path.Join(config.TemplatesLocalDir, config.TemplateLayout)

	for _, name := range pageTemplates {
		tmpl, err := template.New(config.TemplateLayout).
			Funcs(templateFuncs()).
			ParseFS(content, layout, path.Join(config.TemplatesLocalDir, name))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		p.sets[name] = tmpl
	}
	return p, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("02.01.2006, 15:04")
		},
		"isoDate": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"truncate":    util.Truncate,
		"articleURL":  func(id model.ArticleID) string { return routes.ArticlePath(string(id)) },
		"pictureURL":  pictureURL,
		"categoryURL": func(id model.CategoryID) string { return fmt.Sprintf("%s/category/%d", routes.Articles, id) },
	}
}

func pictureURL(name string) string {
	if name == "" {
		return ""
	}
	if base := config.AppConfig.Images.PublicURL; base != "" {
		return strings.TrimSuffix(base, "/") + "/" + name
	}
	return routes.PicturesPrefix + name
}

// render executes a page into a buffer first so template errors still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := s.pages.sets[name]
	if !ok {
		zerolog.Ctx(r.Context()).Error().Str("template", name).Msg("Unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type notFoundPage struct {
	*model.PageData
	Message string
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	zerolog.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Page not found")
	s.render(w, r, http.StatusNotFound, config.TemplateNotFound, notFoundPage{
		PageData: model.NewPageData(r, "Страница не найдена", nil),
		Message:  msg,
	})
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	s.notFound(w, r, "")
}

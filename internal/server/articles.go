package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/metrics"
	"github.com/debemdeboas/typoteka/internal/model"
	"github.com/debemdeboas/typoteka/internal/render"
	"github.com/debemdeboas/typoteka/internal/repository"
	"github.com/debemdeboas/typoteka/internal/routes"
	"github.com/debemdeboas/typoteka/internal/submission"
)

const formTitle = "Публикация"

type articleForm struct {
	*model.PageData
	Draft  *submission.Draft
	Error  string
	Action string
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, draft *submission.Draft, reason string) {
	categories, err := s.gateway.Categories(r.Context())
	if err != nil {
		s.serverError(w, r, err, "Failed to read categories")
		return
	}

	s.render(w, r, status, config.TemplateNewPost, articleForm{
		PageData: model.NewPageData(r, formTitle, categories),
		Draft:    draft,
		Error:    reason,
		Action:   routes.Articles + routes.ArticleAdd,
	})
}

func (s *Server) serveNewArticle(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, &submission.Draft{}, "")
}

// createArticle answers a submission once it has been fully read.
func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	m := s.ingestor.Ingest(w, r)

	switch m.State() {
	case submission.Committed:
		metrics.ObserveSubmission(submission.Created.String(), "")
		http.Redirect(w, r, routes.My, http.StatusSeeOther)

	case submission.Rejected:
		out, _ := m.Outcome()
		metrics.ObserveSubmission(out.Kind.String(), out.Reason)
		// The body may be partly unread; do not let the server try to reuse the connection.
		w.Header().Set("Connection", "close")
		s.renderForm(w, r, http.StatusBadRequest, &out.Draft, out.Reason)

	case submission.AbortedByClient:
		// Nobody is listening for an answer.
		metrics.ObserveSubmission("aborted", "")

	default:
		zerolog.Ctx(r.Context()).Error().Stringer("state", m.State()).Msg("Submission ended without a terminal state")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) serveEditArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := s.article(w, r)
	if !ok {
		return
	}
	// There is no update operation; saving the form submits a new article.
	draft := submission.FromArticle(article)
	s.renderForm(w, r, http.StatusOK, &draft, "")
}

type categoriesPage struct {
	*model.PageData
}

func (s *Server) serveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.gateway.Categories(r.Context())
	if err != nil {
		s.serverError(w, r, err, "Failed to read categories")
		return
	}
	s.render(w, r, http.StatusOK, config.TemplateAllCategories, categoriesPage{
		PageData: model.NewPageData(r, "Категории", categories),
	})
}

type categoryPage struct {
	*model.PageData
	Selected *model.Category
	Articles []model.Article
}

func (s *Server) serveCategoryArticles(w http.ResponseWriter, r *http.Request) {
	const emptyCategory = "Нет статей такой категории"

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.notFound(w, r, emptyCategory)
		return
	}

	ctx := r.Context()
	categories, err := s.gateway.Categories(ctx)
	if err != nil {
		s.serverError(w, r, err, "Failed to read categories")
		return
	}
	articles, err := s.gateway.ArticlesByCategory(ctx, model.CategoryID(id))
	if err != nil {
		s.serverError(w, r, err, "Failed to read articles by category")
		return
	}
	if len(articles) == 0 {
		s.notFound(w, r, emptyCategory)
		return
	}

	page := categoryPage{
		PageData: model.NewPageData(r, "Статьи по категории", categories),
		Articles: articles,
	}
	for i := range categories {
		if categories[i].ID == model.CategoryID(id) {
			page.Selected = &categories[i]
			break
		}
	}
	s.render(w, r, http.StatusOK, config.TemplateArticlesByCategory, page)
}

type articlePage struct {
	*model.PageData
	Article  *model.Article
	Comments []model.Comment
}

func (s *Server) serveArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := s.article(w, r)
	if !ok {
		return
	}
	categories, err := s.gateway.Categories(r.Context())
	if err != nil {
		s.serverError(w, r, err, "Failed to read categories")
		return
	}

	article.Content = template.HTML(render.RenderMarkdownCached([]byte(article.FullText), config.AppConfig.Site.CodeTheme))

	s.render(w, r, http.StatusOK, config.TemplatePost, articlePage{
		PageData: model.NewPageData(r, article.Title, categories),
		Article:  article,
		Comments: article.CommentsNewestFirst(),
	})
}

// article loads the article named in the URL, answering 404 or 500 itself when it cannot.
func (s *Server) article(w http.ResponseWriter, r *http.Request) (*model.Article, bool) {
	id := chi.URLParam(r, "id")
	article, err := s.gateway.Article(r.Context(), model.ArticleID(id))
	if errors.Is(err, repository.ErrNotFound) {
		s.notFound(w, r, "")
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err, "Failed to read article")
		return nil, false
	}
	return article, true
}

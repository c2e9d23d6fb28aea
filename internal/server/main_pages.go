package server

import (
	"net/http"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/model"
)

// Counts shown in the main page sidebars.
const (
	mostDiscussedCount  = 4
	latestCommentsCount = 4
)

type mainPage struct {
	*model.PageData
	Articles       []model.Article
	MostDiscussed  []model.Article
	LatestComments []model.ArticleComment
}

func (s *Server) serveMain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	articles, err := s.gateway.Articles(ctx)
	if err != nil {
		s.serverError(w, r, err, "Failed to read articles")
		return
	}
	categories, err := s.gateway.Categories(ctx)
	if err != nil {
		s.serverError(w, r, err, "Failed to read categories")
		return
	}

	model.SortNewestFirst(articles)
	discussed := model.MostDiscussed(articles)
	if len(discussed) > mostDiscussedCount {
		discussed = discussed[:mostDiscussedCount]
	}

	s.render(w, r, http.StatusOK, config.TemplateMain, mainPage{
		PageData:       model.NewPageData(r, config.AppConfig.Site.Name, categories),
		Articles:       articles,
		MostDiscussed:  discussed,
		LatestComments: model.LatestComments(articles, latestCommentsCount),
	})
}

type myPage struct {
	*model.PageData
	Articles []model.Article
}

// serveMy lists the author's articles. Without accounts every article is the author's.
func (s *Server) serveMy(w http.ResponseWriter, r *http.Request) {
	articles, err := s.gateway.Articles(r.Context())
	if err != nil {
		s.serverError(w, r, err, "Failed to read articles")
		return
	}
	model.SortNewestFirst(articles)

	s.render(w, r, http.StatusOK, config.TemplateMy, myPage{
		PageData: model.NewPageData(r, "Мои публикации", nil),
		Articles: articles,
	})
}

type loginPage struct {
	*model.PageData
	IsLogin bool
}

func (s *Server) serveLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, config.TemplateLogin, loginPage{
		PageData: model.NewPageData(r, "Войти", nil),
		IsLogin:  true,
	})
}

func (s *Server) serveRegister(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, config.TemplateLogin, loginPage{
		PageData: model.NewPageData(r, "Регистрация", nil),
	})
}

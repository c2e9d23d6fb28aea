package model

import (
	"net/http"
	"strings"

	"github.com/debemdeboas/typoteka/internal/config"
)

type PageData struct {
	SiteName string
	Title    string

	PageURL string

	Categories []Category
}

func NewPageData(r *http.Request, title string, categories []Category) *PageData {
	return &PageData{
		SiteName:   config.AppConfig.Site.Name,
		Title:      title,
		PageURL:    r.URL.Path,
		Categories: categories,
	}
}

func (pd *PageData) IsArticlePage() bool {
	return strings.HasPrefix(pd.PageURL, config.ArticlesURLPath)
}

func (pd *PageData) IsMyPage() bool {
	return pd.PageURL == config.MyURLPath
}

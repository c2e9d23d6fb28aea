// Package routes defines the URL paths served by the site.
package routes

const (
	Root     = "/"
	My       = "/my"
	Login    = "/login"
	Register = "/register"

	Healthz = "/healthz"
	Metrics = "/metrics"

	Static   = "/static/*"
	Pictures = "/img/*"

	// Mounted under Articles.
	Articles         = "/articles"
	ArticleAdd       = "/add"
	ArticleEdit      = "/edit/{id}"
	ArticleView      = "/{id}"
	Categories       = "/categories"
	CategoryArticles = "/category/{id}"
)

// PicturesPrefix is where pictures stored on local disk are served from.
const PicturesPrefix = "/img/"

func ArticlePath(id string) string {
	return Articles + "/" + id
}

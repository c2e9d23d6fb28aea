// Package repository holds the article stores read and written by the site.
package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/model"
)

var ErrNotFound = errors.New("not found")

// Gateway is everything the site needs from an article store.
type Gateway interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Article(ctx context.Context, id model.ArticleID) (*model.Article, error)
	ArticlesByCategory(ctx context.Context, id model.CategoryID) ([]model.Article, error)
	Articles(ctx context.Context) ([]model.Article, error)

	// CreateArticle stores a new article and returns its id. Any error means nothing was stored.
	CreateArticle(ctx context.Context, article *model.Article) (model.ArticleID, error)
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/debemdeboas/typoteka/internal/cache"
	"github.com/debemdeboas/typoteka/internal/db"
	"github.com/debemdeboas/typoteka/internal/model"
	"github.com/debemdeboas/typoteka/internal/util/compression"
)

const selectArticle = `SELECT id, title, announcement, full_text, picture, created_at FROM articles`

type DBArticleRepository struct { // implements Gateway
	db         db.Db
	compressor compression.Compressor

	categories *cache.List[model.Category]
}

func NewDBArticleRepository(database db.Db) *DBArticleRepository {
	r := &DBArticleRepository{
		db:         database,
		compressor: compression.NewZstdCompressor(),
	}
	r.categories = cache.NewList(r.loadCategories)
	return r
}

func (r *DBArticleRepository) Categories(ctx context.Context) ([]model.Category, error) {
	return r.categories.Get(ctx)
}

func (r *DBArticleRepository) loadCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}

	repoLogger.Debug().Int("count", len(categories)).Msg("Categories loaded")
	return categories, rows.Err()
}

// CreateCategory inserts a category and drops the cached list.
func (r *DBArticleRepository) CreateCategory(ctx context.Context, c model.Category) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
		return fmt.Errorf("error saving category: %w", err)
	}
	r.categories.Invalidate()
	return nil
}

func (r *DBArticleRepository) Article(ctx context.Context, id model.ArticleID) (*model.Article, error) {
	articles, err := r.queryArticles(ctx, selectArticle+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return &articles[0], nil
}

func (r *DBArticleRepository) ArticlesByCategory(ctx context.Context, id model.CategoryID) ([]model.Article, error) {
	return r.queryArticles(ctx, selectArticle+`
		WHERE id IN (SELECT article_id FROM article_categories WHERE category_id = ?)
		ORDER BY created_at DESC`, id)
}

func (r *DBArticleRepository) Articles(ctx context.Context) ([]model.Article, error) {
	return r.queryArticles(ctx, selectArticle+` ORDER BY created_at DESC`)
}

func (r *DBArticleRepository) queryArticles(ctx context.Context, query string, args ...any) ([]model.Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying articles: %w", err)
	}

	articles := make([]model.Article, 0)
	for rows.Next() {
		var a model.Article
		var compressed []byte
		var announcement, picture sql.NullString

		if err := rows.Scan(&a.ID, &a.Title, &announcement, &compressed, &picture, &a.CreatedDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning article: %w", err)
		}

		text, err := r.compressor.Decompress(compressed)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("error decompressing full text: %w", err)
		}

		a.Announcement = announcement.String
		a.Picture = picture.String
		a.FullText = string(text)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// sqlite serves one query at a time on in-memory databases; close before the follow-ups.
	rows.Close()

	for i := range articles {
		if err := r.fillRelations(ctx, &articles[i]); err != nil {
			return nil, err
		}
	}

	return articles, nil
}

func (r *DBArticleRepository) fillRelations(ctx context.Context, a *model.Article) error {
	rows, err := r.db.Query(ctx, `SELECT category_id FROM article_categories WHERE article_id = ? ORDER BY position`, a.ID)
	if err != nil {
		return fmt.Errorf("error querying article categories: %w", err)
	}
	for rows.Next() {
		var id model.CategoryID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning article category: %w", err)
		}
		a.Categories = append(a.Categories, id)
	}
	rows.Close()

	rows, err = r.db.Query(ctx, `SELECT id, text, created_at FROM comments WHERE article_id = ? ORDER BY created_at`, a.ID)
	if err != nil {
		return fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.CreatedDate); err != nil {
			return fmt.Errorf("error scanning comment: %w", err)
		}
		a.Comments = append(a.Comments, c)
	}
	return rows.Err()
}

func (r *DBArticleRepository) CreateArticle(ctx context.Context, a *model.Article) (model.ArticleID, error) {
	if strings.TrimSpace(a.Title) == "" {
		return "", errors.New("article title is required")
	}
	if a.CreatedDate.IsZero() {
		return "", errors.New("article creation date is required")
	}
	if a.ID == "" {
		a.ID = model.ArticleID(uuid.New().String())
	}

	compressed, err := r.compressor.Compress([]byte(a.FullText))
	if err != nil {
		return "", fmt.Errorf("error compressing full text: %w", err)
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, announcement, full_text, picture, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Announcement, compressed, a.Picture, a.CreatedDate.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("error saving article: %w", err)
	}

	for pos, categoryID := range a.Categories {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_categories (article_id, category_id, position) VALUES (?, ?, ?)`,
			a.ID, categoryID, pos,
		)
		if err != nil {
			return "", fmt.Errorf("error linking category %d: %w", categoryID, err)
		}
	}

	for _, c := range a.Comments {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO comments (id, article_id, text, created_at) VALUES (?, ?, ?, ?)`,
			c.ID, a.ID, c.Text, c.CreatedDate.UTC(),
		)
		if err != nil {
			return "", fmt.Errorf("error saving comment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("error committing article: %w", err)
	}

	repoLogger.Debug().Str("article_id", string(a.ID)).Str("title", a.Title).Msg("Article saved")
	return a.ID, nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/debemdeboas/typoteka/internal/cache"
	"github.com/debemdeboas/typoteka/internal/model"
)

// MockData is the layout of the mocks file.
type MockData struct {
	Categories []model.Category `json:"categories"`
	Articles   []model.Article  `json:"articles"`
}

// ReadMockData parses a mocks file.
func ReadMockData(path string) (*MockData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data MockData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return &data, nil
}

// MockArticleRepository serves articles from a JSON file kept in memory.
// The file is read on first use and again only while nothing has been loaded.
type MockArticleRepository struct { // implements Gateway
	path string

	mu       sync.RWMutex
	articles []model.Article

	categories *cache.List[model.Category]
}

func NewMockArticleRepository(path string) *MockArticleRepository {
	r := &MockArticleRepository{path: path}
	r.categories = cache.NewList(r.loadCategories)
	return r
}

// NewMockArticleRepositoryFrom builds a repository around data that is already in memory.
func NewMockArticleRepositoryFrom(data MockData) *MockArticleRepository {
	r := &MockArticleRepository{articles: slices.Clone(data.Articles)}
	categories := slices.Clone(data.Categories)
	r.categories = cache.NewList(func(context.Context) ([]model.Category, error) {
		return categories, nil
	})
	return r
}

func (r *MockArticleRepository) read() (*MockData, error) {
	if r.path == "" {
		return &MockData{}, nil
	}
	data, err := ReadMockData(r.path)
	if err != nil {
		repoLogger.Error().Err(err).Str("path", r.path).Msg("Error reading mocks")
		return nil, err
	}
	return data, nil
}

func (r *MockArticleRepository) loadCategories(context.Context) ([]model.Category, error) {
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	return data.Categories, nil
}

func (r *MockArticleRepository) all() ([]model.Article, error) {
	r.mu.RLock()
	if len(r.articles) > 0 {
		defer r.mu.RUnlock()
		return slices.Clone(r.articles), nil
	}
	r.mu.RUnlock()

	data, err := r.read()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.articles) == 0 {
		r.articles = data.Articles
	}
	return slices.Clone(r.articles), nil
}

func (r *MockArticleRepository) Categories(ctx context.Context) ([]model.Category, error) {
	return r.categories.Get(ctx)
}

func (r *MockArticleRepository) Article(_ context.Context, id model.ArticleID) (*model.Article, error) {
	articles, err := r.all()
	if err != nil {
		return nil, err
	}
	for i := range articles {
		if articles[i].ID == id {
			return &articles[i], nil
		}
	}
	return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
}

func (r *MockArticleRepository) ArticlesByCategory(_ context.Context, id model.CategoryID) ([]model.Article, error) {
	articles, err := r.all()
	if err != nil {
		return nil, err
	}
	matching := make([]model.Article, 0)
	for _, a := range articles {
		if a.HasCategory(id) {
			matching = append(matching, a)
		}
	}
	model.SortNewestFirst(matching)
	return matching, nil
}

func (r *MockArticleRepository) Articles(context.Context) ([]model.Article, error) {
	articles, err := r.all()
	if err != nil {
		return nil, err
	}
	model.SortNewestFirst(articles)
	return articles, nil
}

func (r *MockArticleRepository) CreateArticle(ctx context.Context, a *model.Article) (model.ArticleID, error) {
	if strings.TrimSpace(a.Title) == "" {
		return "", errors.New("article title is required")
	}
	if a.CreatedDate.IsZero() {
		return "", errors.New("article creation date is required")
	}

	categories, err := r.Categories(ctx)
	if err != nil {
		return "", err
	}
	for _, id := range a.Categories {
		if !slices.ContainsFunc(categories, func(c model.Category) bool { return c.ID == id }) {
			return "", fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
	}

	// Make sure the file contents are loaded before the first write.
	if _, err := r.all(); err != nil {
		return "", err
	}

	stored := *a
	if stored.ID == "" {
		stored.ID = model.ArticleID(uuid.New().String())
	}
	stored.Categories = slices.Clone(a.Categories)

	r.mu.Lock()
	r.articles = append(r.articles, stored)
	r.mu.Unlock()

	a.ID = stored.ID
	repoLogger.Debug().Str("article_id", string(stored.ID)).Msg("Article stored in memory")
	return stored.ID, nil
}

// Package model defines the articles, categories and comments shown by the site.
package model

import (
	"html/template"
	"slices"
	"time"
)

type ArticleID string

type CategoryID int64

type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

type Comment struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	CreatedDate time.Time `json:"created_date"`
}

type Article struct {
	ID ArticleID `json:"id"`

	Title        string `json:"title"`
	Announcement string `json:"announcement"`
	FullText     string `json:"full_text"`

	CreatedDate time.Time `json:"created_date"`

	// Ordered as the author picked them.
	Categories []CategoryID `json:"category"`

	// Bare file name inside the upload directory, empty when there is no picture.
	Picture string `json:"picture"`

	Comments []Comment `json:"comments"`

	// Rendered full text, filled in by the article page.
	Content template.HTML `json:"-"`
}

func (a *Article) HasCategory(id CategoryID) bool {
	return slices.Contains(a.Categories, id)
}

// CategoryNames resolves the article's category ids against the known categories,
// skipping ids that are not in the list.
func (a *Article) CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(a.Categories))
	for _, id := range a.Categories {
		for _, c := range categories {
			if c.ID == id {
				names = append(names, c.Name)
				break
			}
		}
	}
	return names
}

// CommentsNewestFirst returns a sorted copy; the article itself is left untouched.
func (a *Article) CommentsNewestFirst() []Comment {
	sorted := slices.Clone(a.Comments)
	slices.SortStableFunc(sorted, func(x, y Comment) int {
		return y.CreatedDate.Compare(x.CreatedDate)
	})
	return sorted
}

// MostDiscussed returns a copy of articles ordered by comment count, highest first.
func MostDiscussed(articles []Article) []Article {
	sorted := slices.Clone(articles)
	slices.SortStableFunc(sorted, func(a, b Article) int {
		return len(b.Comments) - len(a.Comments)
	})
	return sorted
}

// ArticleComment ties a comment to the article it was left on.
type ArticleComment struct {
	ArticleID    ArticleID
	ArticleTitle string
	Comment
}

// LatestComments collects the limit most recent comments across all articles.
func LatestComments(articles []Article, limit int) []ArticleComment {
	var all []ArticleComment
	for _, a := range articles {
		for _, c := range a.Comments {
			all = append(all, ArticleComment{ArticleID: a.ID, ArticleTitle: a.Title, Comment: c})
		}
	}

	slices.SortStableFunc(all, func(x, y ArticleComment) int {
		return y.CreatedDate.Compare(x.CreatedDate)
	})

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

// SortNewestFirst orders articles by creation date in place.
func SortNewestFirst(articles []Article) {
	slices.SortStableFunc(articles, func(a, b Article) int {
		return b.CreatedDate.Compare(a.CreatedDate)
	})
}

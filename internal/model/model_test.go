package model

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestCategoryID(t *testing.T) {
	var a CategoryID = 3
	var b CategoryID = 3
	if a != b {
		t.Error("Expected equal CategoryIDs to be equal")
	}
}

func TestArticleHasCategory(t *testing.T) {
	a := Article{Categories: []CategoryID{1, 4}}

	if !a.HasCategory(4) {
		t.Error("Expected article to have category 4")
	}
	if a.HasCategory(2) {
		t.Error("Expected article not to have category 2")
	}
}

func TestArticleCategoryNames(t *testing.T) {
	categories := []Category{{ID: 1, Name: "Кино"}, {ID: 2, Name: "IT"}, {ID: 3, Name: "Музыка"}}
	a := Article{Categories: []CategoryID{3, 1, 42}}

	got := a.CategoryNames(categories)
	if len(got) != 2 || got[0] != "Музыка" || got[1] != "Кино" {
		t.Errorf("Expected [Музыка Кино], got %v", got)
	}
}

func TestCommentsNewestFirst(t *testing.T) {
	base := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	a := Article{Comments: []Comment{
		{ID: "old", CreatedDate: base},
		{ID: "new", CreatedDate: base.Add(2 * time.Hour)},
		{ID: "mid", CreatedDate: base.Add(time.Hour)},
	}}

	got := a.CommentsNewestFirst()
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if a.Comments[0].ID != "old" {
		t.Error("Expected original comment order to be preserved")
	}
}

func TestMostDiscussed(t *testing.T) {
	articles := []Article{
		{ID: "quiet"},
		{ID: "busy", Comments: make([]Comment, 3)},
		{ID: "some", Comments: make([]Comment, 1)},
	}

	got := MostDiscussed(articles)
	if got[0].ID != "busy" || got[1].ID != "some" || got[2].ID != "quiet" {
		t.Errorf("Unexpected order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if articles[0].ID != "quiet" {
		t.Error("Expected input slice to be untouched")
	}
}

func TestLatestComments(t *testing.T) {
	base := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	articles := []Article{
		{ID: "a", Title: "A", Comments: []Comment{{ID: "a1", CreatedDate: base}, {ID: "a2", CreatedDate: base.Add(3 * time.Hour)}}},
		{ID: "b", Title: "B", Comments: []Comment{{ID: "b1", CreatedDate: base.Add(time.Hour)}}},
	}

	t.Run("Limited", func(t *testing.T) {
		got := LatestComments(articles, 2)
		if len(got) != 2 {
			t.Fatalf("Expected 2 comments, got %d", len(got))
		}
		if got[0].ID != "a2" || got[1].ID != "b1" {
			t.Errorf("Unexpected order: %s %s", got[0].ID, got[1].ID)
		}
		if got[1].ArticleTitle != "B" {
			t.Errorf("Expected article title B, got %q", got[1].ArticleTitle)
		}
	})

	t.Run("Limit larger than total", func(t *testing.T) {
		if got := LatestComments(articles, 10); len(got) != 3 {
			t.Errorf("Expected 3 comments, got %d", len(got))
		}
	})

	t.Run("No articles", func(t *testing.T) {
		if got := LatestComments(nil, 4); len(got) != 0 {
			t.Errorf("Expected no comments, got %d", len(got))
		}
	})
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	articles := []Article{{ID: "1", CreatedDate: base}, {ID: "2", CreatedDate: base.AddDate(0, 0, 1)}}

	SortNewestFirst(articles)
	if articles[0].ID != "2" {
		t.Errorf("Expected newest article first, got %s", articles[0].ID)
	}
}

func TestNewPageData(t *testing.T) {
	t.Run("Article page", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/articles/42", nil)
		pd := NewPageData(r, "Пост", []Category{{ID: 1, Name: "Кино"}})

		if pd.Title != "Пост" {
			t.Errorf("Expected title 'Пост', got %q", pd.Title)
		}
		if pd.SiteName == "" {
			t.Error("Expected site name from config")
		}
		if !pd.IsArticlePage() {
			t.Error("Expected article page")
		}
		if pd.IsMyPage() {
			t.Error("Expected not to be the my page")
		}
		if len(pd.Categories) != 1 {
			t.Errorf("Expected 1 category, got %d", len(pd.Categories))
		}
	})

	t.Run("My page", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/my", nil)
		pd := NewPageData(r, "Мои публикации", nil)
		if !pd.IsMyPage() {
			t.Error("Expected my page")
		}
		if pd.IsArticlePage() {
			t.Error("Expected not to be an article page")
		}
	})
}

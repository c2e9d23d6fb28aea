// Package submission turns one multipart article submission into exactly one outcome.
package submission

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/debemdeboas/typoteka/internal/model"
)

// Form field names understood by the accumulator.
const (
	FieldTitle        = "title"
	FieldAnnouncement = "announcement"
	FieldFullText     = "full_text"
	FieldCreatedDate  = "created_date"
	FieldCategory     = "category"
	FieldPicture      = "picture"
)

// Draft is the article being assembled from one submission.
type Draft struct {
	Title        string
	Announcement string
	FullText     string

	// RawCreatedDate is what the user typed; CreatedDate is set once normalized.
	RawCreatedDate string
	CreatedDate    *time.Time

	// Category ids in arrival order, as sent by the form.
	Categories []string

	Picture string

	// Fields with names the form does not define.
	Extra map[string]string
}

// Accept applies one form field. Categories accumulate; everything else is last write wins.
func (d *Draft) Accept(name, value string) {
	switch name {
	case FieldCategory:
		d.Categories = append(d.Categories, value)
	case FieldTitle:
		d.Title = value
	case FieldAnnouncement:
		d.Announcement = value
	case FieldFullText:
		d.FullText = value
	case FieldCreatedDate:
		d.RawCreatedDate = value
	default:
		if d.Extra == nil {
			d.Extra = make(map[string]string)
		}
		d.Extra[name] = value
	}
}

// HasCategory reports whether the form selected id. Used to pre-select checkboxes.
func (d *Draft) HasCategory(id model.CategoryID) bool {
	s := strconv.FormatInt(int64(id), 10)
	for _, c := range d.Categories {
		if strings.TrimSpace(c) == s {
			return true
		}
	}
	return false
}

// DateValue is what the date input should show when the form is displayed again.
func (d *Draft) DateValue() string {
	if d.RawCreatedDate != "" {
		return d.RawCreatedDate
	}
	if d.CreatedDate != nil {
		return d.CreatedDate.Format(DateLayout)
	}
	return ""
}

// Article converts a finalized draft into the model the store accepts.
func (d *Draft) Article() (*model.Article, error) {
	if d.CreatedDate == nil {
		return nil, fmt.Errorf("draft date is not normalized")
	}

	categories := make([]model.CategoryID, 0, len(d.Categories))
	for _, c := range d.Categories {
		id, err := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c, err)
		}
		categories = append(categories, model.CategoryID(id))
	}

	return &model.Article{
		Title:        strings.TrimSpace(d.Title),
		Announcement: d.Announcement,
		FullText:     d.FullText,
		CreatedDate:  *d.CreatedDate,
		Categories:   categories,
		Picture:      d.Picture,
	}, nil
}

// FromArticle builds a draft pre-filled with an existing article, for the edit form.
func FromArticle(a *model.Article) Draft {
	created := a.CreatedDate
	d := Draft{
		Title:        a.Title,
		Announcement: a.Announcement,
		FullText:     a.FullText,
		CreatedDate:  &created,
		Picture:      a.Picture,
	}
	for _, id := range a.Categories {
		d.Categories = append(d.Categories, strconv.FormatInt(int64(id), 10))
	}
	return d
}

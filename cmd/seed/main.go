// Command seed loads a mocks file into the SQLite article store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/db"
	"github.com/debemdeboas/typoteka/internal/model"
	"github.com/debemdeboas/typoteka/internal/repository"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// store is the part of the SQLite repository the seeder writes through.
type store interface {
	CreateCategory(ctx context.Context, c model.Category) error
	CreateArticle(ctx context.Context, a *model.Article) (model.ArticleID, error)
}

type summary struct {
	Categories int
	Articles   int
	Failed     []string
}

func main() {
	mocks := flag.String("mocks", "mocks.json", "path to the mocks file")
	dbPath := flag.String("db", "./typoteka.db", "path to the SQLite database")
	flag.Parse()

	data, err := repository.ReadMockData(*mocks)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}

	sqlite := db.NewSQLite(*dbPath)
	if err := sqlite.InitDb(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(fmt.Sprintf(config.ErrInitializeDatabaseFmt, err)))
		os.Exit(1)
	}
	defer sqlite.Close()

	s := seed(context.Background(), repository.NewDBArticleRepository(sqlite), data)
	report(os.Stdout, *dbPath, s)
	if len(s.Failed) > 0 {
		os.Exit(1)
	}
}

// seed writes every category, then every article. One bad article does not stop the rest.
func seed(ctx context.Context, st store, data *repository.MockData) summary {
	var s summary
	for _, c := range data.Categories {
		if err := st.CreateCategory(ctx, c); err != nil {
			s.Failed = append(s.Failed, fmt.Sprintf("category %d: %v", c.ID, err))
			continue
		}
		s.Categories++
	}

	for i := range data.Articles {
		a := data.Articles[i]
		if _, err := st.CreateArticle(ctx, &a); err != nil {
			s.Failed = append(s.Failed, fmt.Sprintf("article %q: %v", a.Title, err))
			continue
		}
		s.Articles++
	}
	return s
}

func report(w io.Writer, dbPath string, s summary) {
	fmt.Fprintln(w, titleStyle.Render("Seeded "+dbPath))
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("%d categories, %d articles", s.Categories, s.Articles)))
	for _, f := range s.Failed {
		fmt.Fprintln(w, errStyle.Render("failed: "+f))
	}
}

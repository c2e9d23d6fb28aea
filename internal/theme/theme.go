// Package theme generates the stylesheet for highlighted code blocks.
package theme

import (
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/debemdeboas/typoteka/internal/cache"
	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/util"
)

// SyntaxCSSPath is where the code stylesheet is served.
const SyntaxCSSPath = "/static/css/syntax.css"

func SyntaxThemes() []string {
	names := styles.Names()
	slices.Sort(names)
	return names
}

// Formatter emits class based markup so one stylesheet covers every article.
func Formatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(false),
		html.WrapLongLines(true),
	)
}

func GenerateSyntaxCSS(style string) template.CSS {
	if css, ok := cache.GetSyntaxCSS(style); ok {
		return css
	}

	var buf strings.Builder
	s := styles.Get(style)

	bg := s.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Some styles set no text colour; pick one readable on their background.
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	if err := Formatter().WriteCSS(&buf, s); err != nil {
		themeLogger.Error().Err(err).Str("style", style).Msg("Failed to write syntax CSS")
	}
	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(style, css)
	return css
}

// SyntaxCSSHandler serves the stylesheet for the configured code theme.
func SyntaxCSSHandler(w http.ResponseWriter, r *http.Request) {
	css := string(GenerateSyntaxCSS(config.AppConfig.Site.CodeTheme))
	etag := `"` + util.ContentHashString(css) + `"`

	w.Header().Set(config.HETag, etag)
	w.Header().Set(config.HCacheControl, "public, max-age=3600")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set(config.HCType, config.CTypeCSS)
	_, _ = w.Write([]byte(css))
}

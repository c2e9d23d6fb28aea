// Package render turns article Markdown into HTML with highlighted code blocks.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/cache"
	"github.com/debemdeboas/typoteka/internal/theme"
	"github.com/debemdeboas/typoteka/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

// HighlightCode returns chroma markup for code. On failure the code is returned escaped.
func HighlightCode(code, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + escape(code) + "</pre>"
	}

	var buf strings.Builder
	if err := theme.Formatter().Format(&buf, styles.Get(style), iterator); err != nil {
		return "<pre>" + escape(code) + "</pre>"
	}
	return buf.String()
}

func escape(s string) string {
	var b strings.Builder
	md_html.EscapeHTML(&b, []byte(s))
	return b.String()
}

// RenderMarkdown renders untrusted article text. Raw HTML in the source is dropped.
func RenderMarkdown(md []byte, style string) []byte {
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.SkipHTML | md_html.HrefTargetBlank | md_html.FootnoteReturnLinks,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = strings.TrimSpace(string(info))
				}
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang, style))
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough | parser.SpaceHeadings |
			parser.HeadingIDs | parser.BackslashLineBreak | parser.DefinitionLists |
			parser.AutoHeadingIDs | parser.Footnotes | parser.NoEmptyLineBeforeBlock,
	).Parse(markdown.NormalizeNewlines(md))

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Guards check-render-set in RenderMarkdownCached so one text renders once.
var renderCacheMutex sync.Mutex

// RenderMarkdownCached renders md, reusing earlier output for the same text and style.
func RenderMarkdownCached(md []byte, style string) []byte {
	hash := util.ContentHash(md)

	if cached, found := cache.GetRenderedMarkdown(hash, style); found {
		renderLogger.Debug().Str("content_hash", hash).Msg("Cache hit for rendered markdown")
		return cached.HTML
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	if cached, found := cache.GetRenderedMarkdown(hash, style); found {
		return cached.HTML
	}

	renderLogger.Debug().Str("content_hash", hash).Msg("Cache miss for rendered markdown")
	html := RenderMarkdown(md, style)
	cache.SetRenderedMarkdown(hash, style, html)
	return html
}

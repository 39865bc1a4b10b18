package markdown

import (
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// CMS authors can paste raw HTML into bodies; only the UGC subset survives.
var (
	ugcPolicy   = newUGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// ToHTML renders a Markdown body with tables, lists, fenced code and
// heading ids, and sanitizes the result.
func ToHTML(body string) template.HTML {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	// A parser keeps state, so each render gets its own.
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags,
	})
	raw := markdown.ToHTML([]byte(body), p, r)
	return template.HTML(ugcPolicy.SanitizeBytes(raw))
}

// Excerpt returns at most n runes of the body as plain text, cut on a word
// boundary with an ellipsis when truncated.
func Excerpt(body string, n int) string {
	text := stripPolicy.Sanitize(string(ToHTML(body)))
	text = html.UnescapeString(text)
	text = strings.Join(strings.Fields(text), " ")

	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	rich     *bluemonday.Policy

	strictOnce sync.Once
	strict     *bluemonday.Policy
)

// richPolicy allows the formatting admins use in announcement descriptions
// and email bodies: text styles, lists, links, headings, simple tables.
func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "mark", "sub", "sup")
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th", "p", "span")
		p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		rich = p
	})
	return rich
}

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Sanitize removes scripts, event handlers and unsafe URLs from admin-authored
// HTML while keeping basic formatting.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return richPolicy().Sanitize(html)
}

// SanitizeToHTML is Sanitize typed for use in html/template email bodies.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// StripTags removes all markup, leaving text. Used for student-authored text
// such as testimonials and addresses.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strictPolicy().Sanitize(s))
}

// IsPlainText reports whether s contains no tag-like markup.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}

// Package markdown renders the rich-text fields of events and speakers
// (descriptions, bios, social links, host lines) as a templ component.
//
// The dialect is small: paragraphs, hard line breaks, # to ### headings,
// bullet and numbered lists, bold, italic and links.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrderedList      = regexp.MustCompile(`^(\d+)\.\s`)
	reMarkup           = regexp.MustCompile(`[*_]{1,2}([^*_]+)[*_]{1,2}`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// String renders md and returns the HTML.
func String(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

// RenderMarkdown writes the HTML representation of md to buf.
// Consecutive text lines stay in one paragraph separated by <br/>.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	inList := false
	inOrderedList := false
	inPara := false

	flushPara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushPara()
			flushList()
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "# "), strings.HasPrefix(trimmed, "## "), strings.HasPrefix(trimmed, "### "):
			flushPara()
			flushList()
			level := strings.Index(trimmed, " ")
			tag := "h" + string(rune('0'+level))
			buf.WriteString("<" + tag + ">")
			buf.WriteString(FormatInline(strings.TrimSpace(trimmed[level:])))
			buf.WriteString("</" + tag + ">")
		case strings.HasPrefix(trimmed, "- "):
			if !inList {
				flushPara()
				flushList()
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(strings.TrimSpace(trimmed[2:])))
			buf.WriteString("</li>")
		case reOrderedList.MatchString(trimmed):
			if !inOrderedList {
				flushPara()
				flushList()
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(FormatInline(strings.TrimSpace(reOrderedList.ReplaceAllString(trimmed, ""))))
			buf.WriteString("</li>")
		default:
			if !inPara {
				flushList()
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString("<br/>")
			}
			buf.WriteString(FormatInline(trimmed))
		}
	}
	flushPara()
	flushList()
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline applies bold, italic and link formatting to s.
// Absolute links open in a new tab; in-page and site links do not.
func FormatInline(s string) string {
	escaped := html.EscapeString(s)
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if isExternal(href) {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})
	return ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

// PlainText strips markup from md, keeping link text, and joins lines with
// single spaces.
func PlainText(md string) string {
	var parts []string
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "# ")
		line = strings.TrimPrefix(line, "- ")
		line = reOrderedList.ReplaceAllString(line, "")
		line = reLink.ReplaceAllString(line, "$1")
		line = reMarkup.ReplaceAllString(line, "$1")
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// Excerpt returns at most n runes of the plain text of md, cut at a word
// boundary with an ellipsis when shortened.
func Excerpt(md string, n int) string {
	text := PlainText(md)
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if runes[n] != ' ' {
		if i := strings.LastIndex(cut, " "); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// Words splits plain text into the words revealed one by one.
func Words(text string) []string {
	return strings.Fields(text)
}

package render

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/derailed/tview"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

const displayDateLayout = "Jan 2, 2006, 03:04 PM"

// dateLayouts are tried in order before falling back to RFC 5322 parsing.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// FormatDate renders a timestamp as a short local date and time. Unparsable
// input, blank input included, is returned unchanged.
func FormatDate(s string) string {
	return FormatDateIn(s, time.Local)
}

// FormatDateIn is FormatDate for an explicit location.
func FormatDateIn(s string, loc *time.Location) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return s
	}
	if loc == nil {
		loc = time.Local
	}
	t, ok := parseDate(raw, loc)
	if !ok {
		return s
	}
	return t.In(loc).Format(displayDateLayout)
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := mail.ParseDate(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatBytes renders a byte count as B, KB or MB with one decimal.
func FormatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// Escape makes untrusted text safe to embed in display markup: terminal
// control characters are dropped and markup brackets are neutralized.
func Escape(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return tview.Escape(b.String())
}

// EscapeLine is Escape for single-line fields: line breaks become spaces.
func EscapeLine(s string) string {
	return Escape(strings.Join(strings.Fields(s), " "))
}

var htmlPolicy = bluemonday.UGCPolicy()

// HTMLToText flattens an HTML message body to plain text. The markup is first
// reduced to a safe subset so no script, style or embedded content survives,
// then walked to text. Hyperlinks are replaced by "[n]" references and their
// targets returned in order.
func HTMLToText(body string) (string, []string) {
	clean := htmlPolicy.Sanitize(body)
	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		return normalizeNewlines(stripControl(clean)), nil
	}
	w := &htmlWalker{}
	w.visit(doc)
	return strings.TrimSpace(normalizeNewlines(w.b.String())), w.links
}

type htmlWalker struct {
	b          strings.Builder
	links      []string
	quoteDepth int
}

func (w *htmlWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
	}
}

func (w *htmlWalker) visit(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := sanitizeForTerminal(n.Data)
		if strings.TrimSpace(text) == "" {
			if text != "" {
				w.b.WriteByte(' ')
			}
			return
		}
		if w.quoteDepth > 0 {
			prefix := strings.Repeat("> ", min(w.quoteDepth, 3))
			text = prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
		}
		w.b.WriteString(text)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	switch strings.ToLower(n.Data) {
	case "head", "style", "script", "title", "meta", "link", "img", "iframe", "object", "embed":
		return
	case "br":
		w.b.WriteByte('\n')
	case "hr":
		w.b.WriteString("\n-----\n")
	case "p", "h1", "h2", "h3", "h4", "h5", "h6":
		w.children(n)
		w.b.WriteString("\n\n")
	case "div", "section", "tr":
		w.children(n)
		w.b.WriteByte('\n')
	case "td", "th":
		w.children(n)
		w.b.WriteString("  ")
	case "li":
		w.b.WriteString("\n- ")
		w.children(n)
	case "ul", "ol":
		w.children(n)
		w.b.WriteByte('\n')
	case "blockquote":
		w.quoteDepth++
		w.b.WriteByte('\n')
		w.children(n)
		w.quoteDepth--
		w.b.WriteByte('\n')
	case "a":
		href := ""
		for _, a := range n.Attr {
			if strings.EqualFold(a.Key, "href") {
				href = strings.TrimSpace(a.Val)
				break
			}
		}
		var inner strings.Builder
		collectText(&inner, n)
		label := strings.TrimSpace(inner.String())
		if href == "" {
			w.b.WriteString(label)
			return
		}
		if label == "" {
			label = href
		}
		w.links = append(w.links, href)
		fmt.Fprintf(&w.b, "%s [%d]", label, len(w.links))
	default:
		w.children(n)
	}
}

func collectText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(sanitizeForTerminal(c.Data))
		case html.ElementNode:
			if strings.EqualFold(c.Data, "br") {
				b.WriteByte(' ')
				continue
			}
			collectText(b, c)
		}
	}
}

// sanitizeForTerminal replaces rich-text glyphs that render poorly in a
// terminal and drops invisible characters.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u00A0', '\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005',
			'\u2006', '\u2007', '\u2008', '\u2009', '\u200A', '\u202F':
			b.WriteRune(' ')
		case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u034F', '\u2060', '\u00AD':
		case '\u2013', '\u2014':
			b.WriteRune('-')
		case '\u2018', '\u2019':
			b.WriteRune('\'')
		case '\u201C', '\u201D':
			b.WriteRune('"')
		case '\u2026':
			b.WriteString("...")
		default:
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeNewlines unifies line endings, trims trailing blanks and collapses
// runs of blank lines.
func normalizeNewlines(s string) string {
	lines := strings.Split(lineBreaks.Replace(s), "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRightFunc(ln, unicode.IsSpace)
	}
	s = strings.Join(lines, "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

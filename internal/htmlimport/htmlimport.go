// Package htmlimport converts HTML documents into Markdown blog sources.
//
// The conversion is lossy and best-effort: headings, paragraphs, emphasis,
// links, images and lists survive, everything else is flattened to text or
// dropped. The output carries a metadata header so an imported document is
// immediately publishable.
package htmlimport

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// placeholderBody is written when the document has no convertible content.
const placeholderBody = "No content found."

// Page is one converted document ready to be written as a Markdown source.
type Page struct {
	Title    string
	Markdown []byte // full document including the metadata header
}

// Convert parses an HTML document and produces a Markdown source with a
// publishable metadata header. The title is taken from <title>, falling back
// to fallbackTitle (usually the file stem); date becomes the publication
// date.
func Convert(r io.Reader, fallbackTitle string, date time.Time) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := documentTitle(doc)
	if title == "" {
		title = fallbackTitle
	}
	if title == "" {
		title = "Untitled"
	}

	body := placeholderBody
	if root := contentRoot(doc); root != nil {
		if rendered := strings.TrimSpace(renderBlocks(root)); rendered != "" {
			body = rendered
		}
	}

	style := frontmatter.Style{Newline: "\n"}
	header, err := frontmatter.SerializeYAML(map[string]any{
		"title":  title,
		"date":   date.Format("2006-01-02"),
		"status": "published",
	}, style)
	if err != nil {
		return nil, fmt.Errorf("serialize header: %w", err)
	}

	md := frontmatter.Join(header, []byte("\n"+body+"\n"), true, style)
	return &Page{Title: title, Markdown: md}, nil
}

// documentTitle returns the trimmed text of the first <title> element.
func documentTitle(doc *html.Node) string {
	if n := findFirst(doc, isElement("title")); n != nil {
		return textOf(n)
	}
	return ""
}

// contentRoot picks the element holding the document's main content:
// the first of <main>, <article>, <div class="content"> and <body>.
func contentRoot(doc *html.Node) *html.Node {
	if n := findFirst(doc, isElement("main")); n != nil {
		return n
	}
	if n := findFirst(doc, isElement("article")); n != nil {
		return n
	}
	if n := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "content")
	}); n != nil {
		return n
	}
	return findFirst(doc, isElement("body"))
}

// renderBlocks walks the content tree and emits Markdown blocks separated by
// blank lines. Block elements do not nest in the output: a matched element
// consumes its whole subtree.
func renderBlocks(root *html.Node) string {
	var blocks []string
	appendBlock := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			blocks = append(blocks, s)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "header", "footer", "aside":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6":
				level := int(n.Data[1] - '0')
				appendBlock(strings.Repeat("#", level) + " " + inlineText(n))
				return
			case "p":
				appendBlock(inlineText(n))
				return
			case "ul":
				appendBlock(renderList(n, false))
				return
			case "ol":
				appendBlock(renderList(n, true))
				return
			case "img":
				appendBlock(imageMarkdown(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(blocks, "\n\n")
}

// inlineText renders the inline content of a block element: emphasis, links
// and images become Markdown, unknown elements contribute their text.
func inlineText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(collapseSpace(n.Data))
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "strong", "b":
				if text := textOf(n); text != "" {
					sb.WriteString("**" + text + "**")
				}
				return
			case "em", "i":
				if text := textOf(n); text != "" {
					sb.WriteString("*" + text + "*")
				}
				return
			case "a":
				href := attr(n, "href")
				text := textOf(n)
				if text == "" {
					text = href
				}
				if href == "" {
					sb.WriteString(text)
				} else {
					sb.WriteString("[" + text + "](" + href + ")")
				}
				return
			case "img":
				sb.WriteString(imageMarkdown(n))
				return
			case "br":
				sb.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.TrimSpace(sb.String())
}

// renderList emits one Markdown list item per direct <li> child.
func renderList(n *html.Node, ordered bool) string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		text := inlineText(c)
		if text == "" {
			continue
		}
		if ordered {
			items = append(items, fmt.Sprintf("%d. %s", len(items)+1, text))
		} else {
			items = append(items, "- "+text)
		}
	}
	return strings.Join(items, "\n")
}

// imageMarkdown renders an <img> as a Markdown embed; images without a
// source are dropped.
func imageMarkdown(n *html.Node) string {
	src := attr(n, "src")
	if src == "" {
		return ""
	}
	return "![" + attr(n, "alt") + "](" + src + ")"
}

// findFirst returns the first node in document order matching the predicate.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isElement(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// textOf flattens every descendant text node into one space-collapsed string.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(collapseSpace(sb.String()))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

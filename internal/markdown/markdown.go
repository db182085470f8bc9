// Package markdown converts Markdown bodies into HTML using goldmark and
// derives plain text for excerpt generation. Raw HTML embedded in a document
// passes through unchanged so long-lived content that mixes HTML into
// Markdown keeps rendering.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// engine is the configured goldmark instance, reused across calls.
var engine = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// ToHTML converts a Markdown body into HTML.
func ToHTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText extracts the text content of a Markdown body by walking its
// parsed document tree and collecting text nodes only. Formatting syntax,
// link destinations and raw HTML never reach the result, which makes it
// safe as teaser input.
func PlainText(source []byte) string {
	root := engine.Parser().Parse(text.NewReader(source))

	var sb bytes.Buffer
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		if n.Type() == gmast.TypeBlock {
			writeSeparator(&sb)
		}

		switch node := n.(type) {
		case *gmast.Text:
			sb.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(node.Value)
		case *gmast.FencedCodeBlock:
			writeLines(&sb, source, node.Lines())
		case *gmast.CodeBlock:
			writeLines(&sb, source, node.Lines())
		case *gmast.HTMLBlock:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	return string(bytes.TrimSpace(sb.Bytes()))
}

func writeLines(sb *bytes.Buffer, source []byte, lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		writeSeparator(sb)
		sb.Write(bytes.TrimSpace(segment.Value(source)))
	}
}

// writeSeparator inserts a single space between adjacent text runs so block
// boundaries never glue words together.
func writeSeparator(sb *bytes.Buffer) {
	b := sb.Bytes()
	if len(b) > 0 && b[len(b)-1] != ' ' {
		sb.WriteByte(' ')
	}
}

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTML_StandardConstructs(t *testing.T) {
	source := []byte("# Title\n\nSome **bold** text with a [link](https://example.com) and ![pic](/images/pic.png).\n\n- one\n- two\n")

	out, err := ToHTML(source)
	require.NoError(t, err)

	require.Contains(t, out, "<h1>Title</h1>")
	require.Contains(t, out, "<strong>bold</strong>")
	require.Contains(t, out, `<a href="https://example.com">link</a>`)
	require.Contains(t, out, `<img src="/images/pic.png" alt="pic"`)
	require.Contains(t, out, "<li>one</li>")
}

func TestToHTML_RawHTMLPassesThrough(t *testing.T) {
	source := []byte("before\n\n<div class=\"note\">kept</div>\n\nafter\n")

	out, err := ToHTML(source)
	require.NoError(t, err)
	require.Contains(t, out, `<div class="note">kept</div>`)
}

func TestToHTML_CodeBlock(t *testing.T) {
	source := []byte("```\nfmt.Println(\"hi\")\n```\n")

	out, err := ToHTML(source)
	require.NoError(t, err)
	require.Contains(t, out, "<pre><code>")
	require.Contains(t, out, "fmt.Println")
}

func TestPlainText_StripsFormattingButKeepsWords(t *testing.T) {
	source := []byte("# Title\n\nSome **bold** text with `code` and a [link](https://example.com).\n")

	got := PlainText(source)

	require.Equal(t, "Title Some bold text with code and a link.", got)
	require.NotContains(t, got, "#")
	require.NotContains(t, got, "*")
	require.NotContains(t, got, "`")
	require.NotContains(t, got, "https://example.com")
}

func TestPlainText_PlainParagraphIsUnchanged(t *testing.T) {
	body := strings.Repeat("a", 200)

	require.Equal(t, body, PlainText([]byte(body)))
}

func TestPlainText_ImageKeepsAltDropsPath(t *testing.T) {
	got := PlainText([]byte("![diagram of flow](assets/flow.png)\n"))

	require.Equal(t, "diagram of flow", got)
}

func TestPlainText_SoftBreaksBecomeSpaces(t *testing.T) {
	got := PlainText([]byte("line one\nline two\n"))

	require.Equal(t, "line one line two", got)
}

func TestPlainText_RawHTMLIsDropped(t *testing.T) {
	got := PlainText([]byte("before\n\n<div>markup</div>\n\nafter\n"))

	require.Equal(t, "before after", got)
}

func TestPlainText_ListItems(t *testing.T) {
	got := PlainText([]byte("- one\n- two\n"))

	require.Equal(t, "one two", got)
}

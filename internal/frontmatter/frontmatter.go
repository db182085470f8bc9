package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline/trailing newline shape and does not
// attempt to preserve original YAML formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// header delimiter but did not contain a closing delimiter line.
var ErrMissingClosingDelimiter = errors.New("yaml header start delimiter found but closing delimiter is missing")

var delimiter = []byte("---")

// Split separates a YAML metadata header (`---` delimited) from the Markdown body.
//
// The scan is line-oriented: the opening delimiter must be the entire first
// line and the closing delimiter must be an entire subsequent line, so body
// text containing `---` mid-line is never mistaken for a delimiter. A
// trailing carriage return on a delimiter line is tolerated for CRLF files.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	line, rest, terminated := cutLine(content)
	if !isDelimiterLine(line) {
		return nil, content, false, style, nil
	}
	if !terminated {
		// Document is a single delimiter line with no further content.
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	headerEnd := 0
	remaining := rest
	for {
		l, r, term := cutLine(remaining)
		if isDelimiterLine(l) {
			return rest[:headerEnd], r, true, style, nil
		}
		if !term {
			return nil, nil, false, style, ErrMissingClosingDelimiter
		}
		headerEnd += len(remaining) - len(r)
		remaining = r
	}
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
// If had is true, Join emits the header using `---` delimiters and the
// newline style captured in Style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	open := []byte("---" + nl)
	closing := []byte("---" + nl)

	out := make([]byte, 0, len(open)+len(frontmatter)+len(closing)+len(body))
	out = append(out, open...)
	out = append(out, frontmatter...)
	out = append(out, closing...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw YAML header content (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// cutLine returns the first line of b without its terminator, the bytes after
// the terminator, and whether a terminator was present. The final line of a
// file without a trailing newline is returned with terminated=false.
func cutLine(b []byte) (line, rest []byte, terminated bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

// isDelimiterLine reports whether a line consists solely of the delimiter,
// allowing a trailing carriage return from CRLF files.
func isDelimiterLine(line []byte) bool {
	return bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), delimiter)
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}

package blog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

const defaultTitle = "Untitled"

const dateLayout = "2006-01-02"

// Extract builds a Post from raw document text.
//
// The metadata header is the YAML block between `---` delimiter lines at the
// start of the document. A document without a header gets all defaults and
// the unmodified text as body. A broken header (unterminated block or invalid
// YAML) degrades the whole record to defaults with the entire raw text as
// body, never a partial result. Individual field problems degrade only that
// field: an unparsable date becomes "no date" while the rest is kept.
func Extract(sourcePath, relPath string, raw []byte) *Post {
	post := &Post{
		Title:      defaultTitle,
		State:      StateDraft,
		SourcePath: sourcePath,
		RelPath:    relPath,
		Slug:       slugFor(relPath),
		Body:       string(raw),
	}

	header, body, had, _, err := frontmatter.Split(raw)
	if err != nil {
		slog.Warn("Unterminated metadata header, using defaults",
			logfields.Path(relPath), logfields.Error(err))
		post.OutputRel = outputRelFor(post.State, post.Slug)
		return post
	}
	if !had {
		post.OutputRel = outputRelFor(post.State, post.Slug)
		return post
	}

	fields, err := frontmatter.ParseYAML(header)
	if err != nil {
		slog.Warn("Invalid metadata header, using defaults",
			logfields.Path(relPath), logfields.Error(err))
		post.OutputRel = outputRelFor(post.State, post.Slug)
		return post
	}

	post.Body = strings.TrimSpace(string(body))

	if s, ok := stringifyScalar(fields["title"]); ok {
		post.Title = s
	}
	if s, ok := stringifyScalar(fields["author"]); ok {
		post.Author = s
	}
	if s, ok := stringifyScalar(fields["status"]); ok {
		post.State = StateFromToken(s)
	}
	post.Date = parseDate(fields["date"], relPath)
	post.Tags = parseTags(fields["tags"])

	post.OutputRel = outputRelFor(post.State, post.Slug)
	return post
}

func slugFor(relPath string) string {
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// stringifyScalar converts a YAML scalar to its string form. A nil value
// (absent key or explicit null) reports ok=false so callers keep defaults.
func stringifyScalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case time.Time:
		// Unquoted YYYY-MM-DD values decode as timestamps.
		return val.Format(dateLayout), true
	default:
		return fmt.Sprint(val), true
	}
}

func parseDate(v any, relPath string) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	s, ok := stringifyScalar(v)
	if !ok {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		slog.Warn("Unparsable publication date, treating as undated",
			logfields.Path(relPath), slog.String("date", s))
		return nil
	}
	return &t
}

func parseTags(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		tags := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := stringifyScalar(item); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		if s, ok := stringifyScalar(v); ok {
			return []string{s}
		}
		return nil
	}
}

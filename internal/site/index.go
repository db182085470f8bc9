package site

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

const (
	// homeTeaserCount caps how many published posts appear on the home page.
	homeTeaserCount = 10
	// excerptLimit is the maximum excerpt length in runes before truncation.
	excerptLimit = 150
)

// stageComposeIndex renders the home page with teasers for the newest
// published posts and writes index.html into the staging root.
func stageComposeIndex(ctx context.Context, bs *BuildState) error {
	ordered := bs.Corpus.PublishedOrdering()
	if len(ordered) > homeTeaserCount {
		ordered = ordered[:homeTeaserCount]
	}
	var cards strings.Builder
	for _, p := range ordered {
		cards.WriteString(articleCard(p))
	}
	page := bs.Templates.renderHome(cards.String())
	outPath := filepath.Join(bs.Generator.stageDir, "index.html")
	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return newFatalStageError(StageComposeIndex, fmt.Errorf("write index.html: %w", err))
	}
	slog.Debug("Composed home page", logfields.Count(len(ordered)))
	return nil
}

// articleCard renders one home page teaser. Links are relative to the site
// root where index.html lives.
func articleCard(p *blog.Post) string {
	return fmt.Sprintf(`
                <article class="article-card" onclick="location.href='%s'">
                    <div class="article-image">🧠</div>
                    <div class="article-content">
                        <h3 class="article-title">%s</h3>
                        <div class="article-date">%s</div>
                        <p class="article-excerpt">%s</p>
                        <a href="%s" class="read-more">Read More →</a>
                    </div>
                </article>`,
		p.OutputRel, html.EscapeString(p.Title), p.DisplayDate(), html.EscapeString(excerpt(p.Body)), p.OutputRel)
}

// excerpt extracts plain text from the markdown body and truncates it to the
// teaser length. The ellipsis is appended only when truncation occurred.
func excerpt(body string) string {
	text := markdown.PlainText([]byte(body))
	runes := []rune(text)
	if len(runes) > excerptLimit {
		return string(runes[:excerptLimit]) + "..."
	}
	return text
}

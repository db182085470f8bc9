package site

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/blogbuilder/internal/assets"
	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
)

// stageRenderDocuments renders every document body to HTML and writes the
// pages into the staging tree. Documents are independent, so rendering fans
// out over a bounded worker group; the first error cancels the group and
// fails the build.
func stageRenderDocuments(ctx context.Context, bs *BuildState) error {
	workers := bs.Generator.config.Build.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	bs.Generator.recorder.SetRenderWorkers(workers)
	slog.Debug("Rendering documents", logfields.Count(len(bs.Corpus.Posts)), logfields.Workers(workers))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, post := range bs.Corpus.Posts {
		eg.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return bs.Generator.renderDocument(post, bs)
		})
	}
	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageRenderDocuments, ctx.Err())
		}
		return newFatalStageError(StageRenderDocuments, err)
	}
	bs.Report.RenderedPages = len(bs.Corpus.Posts)
	bs.Generator.recorder.AddDocumentsRendered(len(bs.Corpus.Posts))
	return nil
}

// renderDocument converts one post's body to HTML, wraps it in the page
// template and writes it to the post's output path under staging.
func (g *Generator) renderDocument(post *blog.Post, bs *BuildState) error {
	body := assets.RewriteRefs(post.Body, bs.Renames)
	rendered, err := markdown.ToHTML([]byte(body))
	if err != nil {
		return fmt.Errorf("render %s: %w", post.SourcePath, err)
	}
	page := bs.Templates.renderPage(post.Title, metaBlock(post)+rendered)

	outPath := filepath.Join(g.stageDir, filepath.FromSlash(post.OutputRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", post.OutputRel, err)
	}
	if err := os.WriteFile(outPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", post.OutputRel, err)
	}
	slog.Debug("Rendered document",
		logfields.Title(post.Title),
		logfields.State(string(post.State)),
		logfields.Output(post.OutputRel))
	return nil
}

// metaBlock renders the header shown above every document body: bold title,
// optional byline, display date and publication state.
func metaBlock(p *blog.Post) string {
	var b strings.Builder
	b.WriteString("    <div class=\"meta\">\n")
	fmt.Fprintf(&b, "        <strong>%s</strong><br>\n", html.EscapeString(p.Title))
	b.WriteString("        ")
	if p.Author != "" {
		fmt.Fprintf(&b, "By %s | ", html.EscapeString(p.Author))
	}
	fmt.Fprintf(&b, "%s | Status: %s\n", p.DisplayDate(), p.State)
	b.WriteString("    </div>\n")
	return b.String()
}

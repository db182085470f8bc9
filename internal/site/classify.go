package site

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// stageClassifyDocuments discovers every Markdown document in the content
// tree, extracts metadata and partitions the corpus by publication state.
func stageClassifyDocuments(ctx context.Context, bs *BuildState) error {
	corpus, err := blog.Discover(bs.ContentDir)
	if err != nil {
		return newFatalStageError(StageClassifyDocuments, err)
	}

	bs.Corpus = corpus
	bs.Report.TotalDocuments = len(corpus.Posts)
	bs.Report.PublishedDocuments = len(corpus.Published())
	slog.Debug("Classified documents",
		logfields.Count(len(corpus.Posts)),
		slog.Int("published", bs.Report.PublishedDocuments))
	return nil
}

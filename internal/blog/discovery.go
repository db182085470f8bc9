package blog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

var (
	// ErrWalkFailed indicates filesystem traversal of the content directory failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrDocumentReadFailed indicates reading a discovered document failed.
	// Document reads are all-or-nothing for a run.
	ErrDocumentReadFailed = errors.New("document read failed")
)

// Discover walks the content directory, reads every Markdown document and
// extracts its metadata into a Corpus.
//
// Traversal is lexical, so discovery order (and with it collision and
// ordering tie-breaks downstream) is reproducible across runs. Hidden files
// and directories are skipped. A read failure aborts discovery; a broken
// metadata header does not.
func Discover(contentDir string) (*Corpus, error) {
	corpus := &Corpus{}

	err := filepath.Walk(contentDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if p != contentDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		if !isMarkdownFile(p) {
			return nil
		}

		raw, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDocumentReadFailed, p, err)
		}

		relPath, err := filepath.Rel(contentDir, p)
		if err != nil {
			relPath = info.Name()
		}

		post := Extract(p, relPath, raw)
		corpus.Posts = append(corpus.Posts, post)

		slog.Debug("Discovered document",
			logfields.Path(relPath),
			logfields.Title(post.Title),
			logfields.State(string(post.State)))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDocumentReadFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrWalkFailed, err)
	}

	slog.Info("Documents discovered",
		logfields.Source(contentDir),
		logfields.Count(len(corpus.Posts)))
	return corpus, nil
}

func isMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

// Package assets copies image files referenced by documents into one flat
// site directory and rewrites document references to point at it.
package assets

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// RenameMap maps an original asset basename to its assigned basename in the
// output directory. It is built once per run and read-only afterwards.
type RenameMap map[string]string

// DedupeResult carries the rename map plus the counts the build report needs.
type DedupeResult struct {
	Renames    RenameMap
	Copied     int
	Collisions int
}

var (
	// ErrAssetWalkFailed indicates filesystem traversal of the content directory failed.
	ErrAssetWalkFailed = errors.New("asset walk failed")

	// ErrAssetCopyFailed indicates copying an asset into the output directory failed.
	ErrAssetCopyFailed = errors.New("asset copy failed")
)

// imageExtensions is the fixed allow-list of recognized asset types.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".svg":  {},
	".webp": {},
	".bmp":  {},
	".ico":  {},
}

// IsImage reports whether name carries a recognized image extension,
// case-insensitively.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Dedupe walks the content directory in lexical order and copies every
// recognized image into destDir, which is created if needed. Basenames are
// NFC-normalized so composed references in document text match decomposed
// file names from macOS checkouts.
//
// Name collisions never overwrite: a taken name gets an incrementing suffix
// before the extension (name_1.ext, name_2.ext, ...). The returned map
// records the first assignment per original basename; a later distinct file
// with an already-mapped basename keeps its copy on disk but not its map
// entry, so references by that basename resolve to the first copy.
func Dedupe(contentDir, destDir string) (*DedupeResult, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssetCopyFailed, err)
	}

	result := &DedupeResult{Renames: RenameMap{}}

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
		if !IsImage(info.Name()) {
			return nil
		}

		original := norm.NFC.String(info.Name())
		assigned, err := copyWithFreeName(p, destDir, original, info.Mode())
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrAssetCopyFailed, p, err)
		}
		result.Copied++

		if assigned != original {
			result.Collisions++
		}
		if _, taken := result.Renames[original]; taken {
			slog.Warn("Duplicate asset basename, references keep the first copy",
				logfields.Asset(original),
				logfields.Path(p),
				slog.String("copied_as", assigned))
		} else {
			result.Renames[original] = assigned
		}

		fmt.Printf("Copied image: %s -> /images/%s\n", info.Name(), assigned)
		slog.Debug("Copied image",
			logfields.Asset(original),
			slog.String("destination", "/images/"+assigned))
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAssetCopyFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAssetWalkFailed, err)
	}

	return result, nil
}

// copyWithFreeName copies src into destDir under the first free variant of
// original and returns the assigned basename.
func copyWithFreeName(src, destDir, original string, mode os.FileMode) (string, error) {
	stem := strings.TrimSuffix(original, filepath.Ext(original))
	ext := filepath.Ext(original)

	assigned := original
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(destDir, assigned)); os.IsNotExist(err) {
			break
		}
		assigned = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}

	if err := copyFile(src, filepath.Join(destDir, assigned), mode); err != nil {
		return "", err
	}
	return assigned, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

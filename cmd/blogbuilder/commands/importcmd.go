package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/htmlimport"
)

// ImportCmd implements the 'import' command: lossy HTML to Markdown
// conversion for bringing existing pages into the blog source tree.
type ImportCmd struct {
	Input  string `arg:"" help:"HTML file or directory of HTML files to import"`
	Output string `short:"o" help:"Directory for the converted Markdown sources" default:"."`
}

func (i *ImportCmd) Run(_ *Global, _ *CLI) error {
	info, err := os.Stat(i.Input)
	if err != nil {
		return blderrors.SourceNotFound(i.Input)
	}

	if err := os.MkdirAll(i.Output, 0o755); err != nil {
		return blderrors.Wrap(err, blderrors.CategoryFileSystem, blderrors.SeverityFatal,
			"failed to create output directory: "+err.Error())
	}

	if info.IsDir() {
		return i.importDir()
	}
	return i.importFile(i.Input)
}

// importDir converts every *.html entry and carries companion "_files"
// asset directories (the layout browsers use for saved pages) along
// unchanged.
func (i *ImportCmd) importDir() error {
	entries, err := os.ReadDir(i.Input)
	if err != nil {
		return blderrors.Wrap(err, blderrors.CategoryFileSystem, blderrors.SeverityFatal,
			"failed to read input directory: "+err.Error())
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Name() < entries[b].Name() })

	converted := 0
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.IsDir() && strings.HasSuffix(name, "_files"):
			if err := CopyDir(filepath.Join(i.Input, name), filepath.Join(i.Output, name)); err != nil {
				return blderrors.Wrap(err, blderrors.CategoryFileSystem, blderrors.SeverityFatal,
					"failed to copy asset directory: "+err.Error())
			}
			fmt.Printf("Copied images: %s\n", name)
		case !entry.IsDir() && strings.EqualFold(filepath.Ext(name), ".html"):
			if err := i.importFile(filepath.Join(i.Input, name)); err != nil {
				return err
			}
			converted++
		}
	}
	if converted == 0 {
		fmt.Println("No HTML files found to import")
	}
	return nil
}

// importFile converts one HTML document into <stem>.md in the output directory.
func (i *ImportCmd) importFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return blderrors.Wrap(err, blderrors.CategoryFileSystem, blderrors.SeverityFatal,
			"failed to open input: "+err.Error())
	}
	defer func() {
		_ = f.Close()
	}()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	page, err := htmlimport.Convert(f, stem, time.Now())
	if err != nil {
		return blderrors.Wrap(err, blderrors.CategoryRender, blderrors.SeverityFatal,
			"failed to convert "+path+": "+err.Error())
	}

	outPath := filepath.Join(i.Output, stem+".md")
	if err := os.WriteFile(outPath, page.Markdown, 0o644); err != nil {
		return blderrors.Wrap(err, blderrors.CategoryFileSystem, blderrors.SeverityFatal,
			"failed to write "+outPath+": "+err.Error())
	}

	fmt.Printf("Converted: %s -> %s\n", filepath.Base(path), stem+".md")
	return nil
}

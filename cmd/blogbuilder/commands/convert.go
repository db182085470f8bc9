package commands

import (
	"errors"
	"fmt"

	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// ConvertCmd implements the 'convert' command: one Markdown file in, one
// HTML page out, no site build.
type ConvertCmd struct {
	Input  string `arg:"" help:"Markdown file to convert"`
	Output string `arg:"" optional:"" help:"Output HTML file; defaults to the input name with .html"`
}

func (c *ConvertCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	out, err := site.ConvertFile(cfg, c.Input, c.Output)
	if err != nil {
		var be *blderrors.BuildError
		if errors.As(err, &be) {
			return be
		}
		return blderrors.Wrap(err, blderrors.CategoryRender, blderrors.SeverityFatal,
			"conversion failed: "+err.Error())
	}

	fmt.Printf("Successfully converted '%s' to '%s'\n", c.Input, out)
	return nil
}

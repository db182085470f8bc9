package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return blderrors.Wrap(err, blderrors.CategoryConfig, blderrors.SeverityFatal, err.Error())
	}
	fmt.Printf("Created configuration file: %s\n", root.Config)
	return nil
}

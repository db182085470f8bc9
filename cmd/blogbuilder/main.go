package main

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/cmd/blogbuilder/commands"
	blderrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

func main() {
	var cli commands.CLI

	ctx := kong.Parse(&cli,
		kong.Name("blogbuilder"),
		kong.Description("Generate a static blog site from a Markdown content repository."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version": fmt.Sprintf("blogbuilder %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	blderrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}

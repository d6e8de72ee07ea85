package main

import (
	"github.com/alecthomas/kong"
	"github.com/lox/setgame/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play Set in the terminal"`
	Solve    SolveCmd         `cmd:"" help:"List the sets among some cards"`
	Simulate SimulateCmd      `cmd:"" help:"Play many sessions with bots and report statistics"`
	Compare  CompareCmd       `cmd:"" help:"Compare two bot strategies on the same deals"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("setgame"),
		kong.Description("The card game Set, in your terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/tongits/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"1" help:"Play a game in the terminal"`
	Serve   ServeCmd         `cmd:"" help:"Run the WebSocket game server"`
	Join    JoinCmd          `cmd:"" help:"Play a seat of a game on a server"`
	Arrange ArrangeCmd       `cmd:"" help:"Group cards into melds and deadwood"`
	Deal    DealCmd          `cmd:"" help:"Shuffle and deal a table, then print the hands"`
	History HistoryCmd       `cmd:"" help:"Print a recorded game"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tongits"),
		kong.Description("Tongits card game: terminal play, server and tools"),
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

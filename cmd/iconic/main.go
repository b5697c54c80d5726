package main

import (
	"errors"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/iconic/cmd/utils"
	"github.com/anyswap/iconic/log"
)

var (
	clientIdentifier = "iconic"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "publish and resolve account icons")
)

func initApp() {
	// Initialize the CLI app and start action
	app.Action = run
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2021 The iconic Authors"
	app.Commands = []*cli.Command{
		setCommand,
		getCommand,
		serveCommand,
		utils.VersionCommand,
	}
	app.Flags = append([]cli.Flag{utils.ConfigFileFlag}, utils.CommonLogFlags...)
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return cli.Exit("invalid command: "+ctx.Args().Get(0), 1)
	}
	_ = cli.ShowAppHelp(ctx)
	return errors.New("no subcommand specified")
}

package main

import (
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/iconic/common"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "file to write the fetched icon to",
		Value:   "icon",
	}

	getCommand = &cli.Command{
		Action:    getIcon,
		Name:      "get",
		Usage:     "fetch the icon of an account",
		ArgsUsage: "ADDRESS [TARGET]",
		Flags:     []cli.Flag{outputFlag},
		Description: `
fetch the icon of TARGET, or of ADDRESS if TARGET is not provided,
and write it to the output file.
`,
	}
)

func getIcon(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return fmt.Errorf("get needs 1 or 2 arguments, got %v", ctx.NArg())
	}
	account, err := parseAddressArg(ctx, 0, "ADDRESS")
	if err != nil {
		return err
	}
	target := account
	if ctx.NArg() == 2 {
		target, err = parseAddressArg(ctx, 1, "TARGET")
		if err != nil {
			return err
		}
	}

	s, err := newIconService(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	content, err := s.Resolve(commandContext(ctx), target)
	if err != nil {
		return fmt.Errorf("an error occurred while fetching target's icon: %w", err)
	}
	output := common.ExpandPath(ctx.String(outputFlag.Name))
	if err = ioutil.WriteFile(output, content, 0o644); err != nil {
		return fmt.Errorf("write icon file failed: %w", err)
	}
	fmt.Printf("Icon of %v was written to %v (%d bytes)\n", target.String(), output, len(content))
	return nil
}

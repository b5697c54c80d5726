package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/iconic/common"
)

var setCommand = &cli.Command{
	Action:    setIcon,
	Name:      "set",
	Usage:     "publish an icon for an account",
	ArgsUsage: "ADDRESS FILE",
	Description: `
publish the content of FILE to the content store and record its identifier
as the icon of ADDRESS (hex encoded account address, 0x prefix is optional).
`,
}

func setIcon(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("set needs exactly 2 arguments, got %v", ctx.NArg())
	}
	account, err := parseAddressArg(ctx, 0, "ADDRESS")
	if err != nil {
		return err
	}
	file, err := os.Open(common.ExpandPath(ctx.Args().Get(1)))
	if err != nil {
		return fmt.Errorf("open icon file failed: %w", err)
	}
	defer file.Close()

	s, err := newIconService(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Publish(commandContext(ctx), account, file)
	if err != nil {
		return fmt.Errorf("an error occurred while saving your icon: %w", err)
	}
	fmt.Println("Icon was successfully saved.")
	fmt.Println("cid:", id.String())
	return nil
}

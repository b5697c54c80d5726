package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/iconic/cmd/utils"
	"github.com/anyswap/iconic/internal/iconapi"
	"github.com/anyswap/iconic/log"
	"github.com/anyswap/iconic/params"
	rpcserver "github.com/anyswap/iconic/rpc/server"
)

var serveCommand = &cli.Command{
	Action:    serve,
	Name:      "serve",
	Usage:     "serve the icon rest and json-rpc api",
	ArgsUsage: " ",
	Description: `
serve publish and resolve over http, the listen port and the
allowed origins are specified in the [Server] section of config file.
`,
}

func serve(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	s, err := newIconService(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	ipfsConfig := params.GetIpfsConfig()
	iconapi.Init(s.Service, &iconapi.ServerInfo{
		Identifier: params.GetIdentifier(),
		Backend:    ipfsConfig.Backend,
		NetworkID:  s.mapping.NetworkID(),
		Contract:   s.mapping.Address().String(),
		Version:    params.VersionWithMeta,
	}, ipfsConfig.MaxContentSize)

	svr := rpcserver.StartAPIServer(params.GetAPIServerConfig())
	utils.WaitForExit()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svr.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown api server failed", "err", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/iconic/cmd/utils"
	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/iconic"
	"github.com/anyswap/iconic/ipfs"
	"github.com/anyswap/iconic/ledger"
	"github.com/anyswap/iconic/log"
	"github.com/anyswap/iconic/params"
)

type iconService struct {
	*iconic.Service
	store   ipfs.Store
	mapping *ledger.Mapping
}

func (s *iconService) Close() {
	if err := s.store.Close(); err != nil {
		log.Warn("close content store failed", "err", err)
	}
	if err := s.mapping.Close(); err != nil {
		log.Warn("close ledger mapping failed", "err", err)
	}
}

// load config and connect the content store and the ledger mapping
func newIconService(ctx *cli.Context) (*iconService, error) {
	utils.SetLogger(ctx)
	params.LoadConfig(utils.GetConfigFilePath(ctx))

	store, err := ipfs.NewStore(params.GetIpfsConfig())
	if err != nil {
		return nil, err
	}
	mapping, err := ledger.ConnectWithConfig(commandContext(ctx), params.GetEthereumConfig())
	if err != nil {
		_ = store.Close()
		if ledger.IsFatal(err) {
			return nil, cli.Exit(fmt.Sprintf("icon contract unavailable: %v", err), 2)
		}
		return nil, err
	}
	return &iconService{
		Service: iconic.NewService(store, mapping),
		store:   store,
		mapping: mapping,
	}, nil
}

func parseAddressArg(ctx *cli.Context, index int, name string) (common.Address, error) {
	arg := ctx.Args().Get(index)
	if arg == "" {
		return common.Address{}, fmt.Errorf("missing %v argument", name)
	}
	address, err := common.ParseAddress(arg)
	if err != nil {
		return common.Address{}, fmt.Errorf("wrong %v argument: %w", name, err)
	}
	return address, nil
}

func commandContext(ctx *cli.Context) context.Context {
	if ctx.Context != nil {
		return ctx.Context
	}
	return context.Background()
}

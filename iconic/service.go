// Package iconic publishes and resolves account icons.
//
// An icon is stored in a content addressed store and its identifier,
// encoded as an uint256, is recorded in the icon contract keyed by account.
package iconic

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/anyswap/iconic/cid"
	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/log"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/anyswap/iconic/iconic ContentStore,Mapping

// ContentStore stores icon content by its identifier
type ContentStore interface {
	Add(ctx context.Context, content io.Reader) (cid.ID, error)
	Cat(ctx context.Context, id cid.ID) ([]byte, error)
}

// Mapping records an uint256 per account
type Mapping interface {
	Set(ctx context.Context, key common.Address, value *big.Int) (common.Hash, error)
	Get(ctx context.Context, key common.Address) (*big.Int, error)
}

// Service publish and resolve icons
type Service struct {
	store   ContentStore
	mapping Mapping
}

// NewService new service
func NewService(store ContentStore, mapping Mapping) *Service {
	return &Service{
		store:   store,
		mapping: mapping,
	}
}

// Publish store content and record its identifier for account.
// If recording fails the stored content is left orphaned.
func (s *Service) Publish(ctx context.Context, account common.Address, content io.Reader) (cid.ID, error) {
	id, err := s.store.Add(ctx, content)
	if err != nil {
		return cid.ID{}, fmt.Errorf("publish: add content: %w", err)
	}
	txHash, err := s.mapping.Set(ctx, account, id.Big())
	if err != nil {
		log.Warn("publish icon left content orphaned", "account", account.String(), "cid", id.String(), "err", err)
		return cid.ID{}, fmt.Errorf("publish: set icon %v for %v: %w", id, account.String(), err)
	}
	log.Info("publish icon success", "account", account.String(), "cid", id.String(), "txHash", txHash.String())
	return id, nil
}

// Lookup get the icon identifier recorded for account
func (s *Service) Lookup(ctx context.Context, account common.Address) (cid.ID, error) {
	value, err := s.mapping.Get(ctx, account)
	if err != nil {
		return cid.ID{}, fmt.Errorf("resolve: get icon of %v: %w", account.String(), err)
	}
	if value == nil || value.Sign() == 0 {
		return cid.ID{}, fmt.Errorf("resolve: get icon of %v: %w", account.String(), ErrNoIcon)
	}
	id, err := cid.FromBig(value)
	if err != nil {
		return cid.ID{}, fmt.Errorf("resolve: decode %v: %w", value, err)
	}
	return id, nil
}

// Resolve get the icon content of account
func (s *Service) Resolve(ctx context.Context, account common.Address) ([]byte, error) {
	id, err := s.Lookup(ctx, account)
	if err != nil {
		return nil, err
	}
	content, err := s.store.Cat(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve: fetch %v: %w", id, err)
	}
	log.Debug("resolve icon success", "account", account.String(), "cid", id.String(), "size", len(content))
	return content, nil
}

// Package ipfs stores icons in a content addressed object store.
package ipfs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/anyswap/iconic/cid"
	"github.com/anyswap/iconic/params"
)

// content store errors
var (
	ErrConnectivity      = errors.New("content store connectivity failure")
	ErrNotFound          = errors.New("content not found")
	ErrMalformedResponse = errors.New("malformed content store response")
)

// Store is a content addressed object store.
// Adding identical bytes always yields the same identifier.
type Store interface {
	Add(ctx context.Context, content io.Reader) (cid.ID, error)
	Cat(ctx context.Context, id cid.ID) ([]byte, error)
	Close() error
}

// NewStore creates the store selected by config backend
func NewStore(config *params.IpfsConfig) (Store, error) {
	switch config.Backend {
	case params.IpfsBackend:
		return NewClient(config), nil
	case params.LocalBackend:
		return NewLocalStore(config.DataDir)
	default:
		return nil, fmt.Errorf("unknown content store backend %q", config.Backend)
	}
}

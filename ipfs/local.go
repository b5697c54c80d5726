package ipfs

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/anyswap/iconic/cid"
	"github.com/anyswap/iconic/leveldb"
	"github.com/anyswap/iconic/log"
)

// LocalStore keeps content in a leveldb database keyed by raw identifier.
// Identifiers are sha2-256 of the raw bytes, not of an ipfs unixfs dag,
// so they differ from what an ipfs daemon returns for the same bytes.
type LocalStore struct {
	db *leveldb.Database
}

// NewLocalStore open or create local store at dataDir
func NewLocalStore(dataDir string) (*LocalStore, error) {
	db, err := leveldb.New(dataDir, 0, 0, false)
	if err != nil {
		return nil, fmt.Errorf("%w: open local store %v: %v", ErrConnectivity, dataDir, err)
	}
	log.Info("open local content store success", "path", db.Path())
	return &LocalStore{db: db}, nil
}

// Add store content under its sha2-256 identifier
func (s *LocalStore) Add(ctx context.Context, content io.Reader) (cid.ID, error) {
	if err := ctx.Err(); err != nil {
		return cid.ID{}, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	data, err := ioutil.ReadAll(content)
	if err != nil {
		return cid.ID{}, fmt.Errorf("%w: read content: %v", ErrConnectivity, err)
	}
	id, err := cid.Sum(data)
	if err != nil {
		return cid.ID{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	key := id.Bytes()
	exist, err := s.db.Has(key)
	if err != nil {
		return cid.ID{}, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	if !exist {
		if err = s.db.Put(key, data); err != nil {
			return cid.ID{}, fmt.Errorf("%w: %v", ErrConnectivity, err)
		}
	}
	log.Debug("local store add success", "cid", id, "size", len(data), "exist", exist)
	return id, nil
}

// Cat get content by identifier
func (s *LocalStore) Cat(ctx context.Context, id cid.ID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	data, err := s.db.Get(id.Bytes())
	if leveldb.IsNotFoundErr(err) {
		return nil, fmt.Errorf("%w: cat %v", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cat %v: %v", ErrConnectivity, id, err)
	}
	return data, nil
}

// Close close the database
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Package iconapi is the icon service backend of the rpc and rest api.
package iconapi

import (
	"bytes"
	"context"
	"errors"
	"sync"

	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/anyswap/iconic/cid"
	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/iconic"
	"github.com/anyswap/iconic/ipfs"
	"github.com/anyswap/iconic/ledger"
	"github.com/anyswap/iconic/log"
)

// rpc error codes
const (
	ErrCodeInvalidArgs     rpcjson.ErrorCode = -32602
	ErrCodeNoIcon          rpcjson.ErrorCode = -32096
	ErrCodeContentTooLarge rpcjson.ErrorCode = -32095
	ErrCodeContentStore    rpcjson.ErrorCode = -32094
	ErrCodeLedger          rpcjson.ErrorCode = -32093
	ErrCodeInternal        rpcjson.ErrorCode = -32000
)

var (
	errServiceNotReady = newRPCError(ErrCodeInternal, "icon service is not ready")
	errEmptyContent    = newRPCError(ErrCodeInvalidArgs, "empty icon content")

	service        *iconic.Service
	serverInfo     *ServerInfo
	maxContentSize int64
	apiLock        sync.Mutex
)

func newRPCError(ec rpcjson.ErrorCode, message string) *rpcjson.Error {
	return &rpcjson.Error{
		Code:    ec,
		Message: message,
	}
}

// Init set the icon service the api serves
func Init(s *iconic.Service, info *ServerInfo, maxSize int64) {
	apiLock.Lock()
	defer apiLock.Unlock()
	service = s
	serverInfo = info
	maxContentSize = maxSize
}

func getService() (*iconic.Service, error) {
	apiLock.Lock()
	defer apiLock.Unlock()
	if service == nil {
		return nil, errServiceNotReady
	}
	return service, nil
}

// MaxContentSize max icon size accepted by SetIcon
func MaxContentSize() int64 {
	apiLock.Lock()
	defer apiLock.Unlock()
	return maxContentSize
}

// ToRPCError convert error to rpc error with code by its kind
func ToRPCError(err error) *rpcjson.Error {
	var rpcErr *rpcjson.Error
	switch {
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.Is(err, common.ErrInvalidAddress):
		return newRPCError(ErrCodeInvalidArgs, err.Error())
	case errors.Is(err, ipfs.ErrNotFound):
		return newRPCError(ErrCodeNoIcon, err.Error())
	case errors.Is(err, ipfs.ErrConnectivity), errors.Is(err, ipfs.ErrMalformedResponse):
		return newRPCError(ErrCodeContentStore, err.Error())
	case errors.Is(err, ledger.ErrRPCFailure), errors.Is(err, ledger.ErrContractCall):
		return newRPCError(ErrCodeLedger, err.Error())
	default:
		return newRPCError(ErrCodeInternal, "rpcError: "+err.Error())
	}
}

// GetServerInfo api
func GetServerInfo() (*ServerInfo, error) {
	log.Debug("[api] receive GetServerInfo")
	apiLock.Lock()
	defer apiLock.Unlock()
	if serverInfo == nil {
		return nil, errServiceNotReady
	}
	info := *serverInfo
	return &info, nil
}

// GetIconCid api
func GetIconCid(ctx context.Context, address string) (*IconInfo, error) {
	log.Debug("[api] receive GetIconCid", "address", address)
	s, err := getService()
	if err != nil {
		return nil, err
	}
	account, err := common.ParseAddress(address)
	if err != nil {
		return nil, ToRPCError(err)
	}
	id, err := s.Lookup(ctx, account)
	if err != nil {
		return nil, ToRPCError(err)
	}
	return newIconInfo(account, id), nil
}

// GetIcon api
func GetIcon(ctx context.Context, address string) ([]byte, error) {
	log.Debug("[api] receive GetIcon", "address", address)
	s, err := getService()
	if err != nil {
		return nil, err
	}
	account, err := common.ParseAddress(address)
	if err != nil {
		return nil, ToRPCError(err)
	}
	content, err := s.Resolve(ctx, account)
	if err != nil {
		return nil, ToRPCError(err)
	}
	return content, nil
}

// SetIcon api
func SetIcon(ctx context.Context, address string, content []byte) (*IconInfo, error) {
	log.Debug("[api] receive SetIcon", "address", address, "size", len(content))
	s, err := getService()
	if err != nil {
		return nil, err
	}
	account, err := common.ParseAddress(address)
	if err != nil {
		return nil, ToRPCError(err)
	}
	if len(content) == 0 {
		return nil, errEmptyContent
	}
	if maxSize := MaxContentSize(); maxSize > 0 && int64(len(content)) > maxSize {
		return nil, newRPCError(ErrCodeContentTooLarge, "icon content is too large")
	}
	id, err := s.Publish(ctx, account, bytes.NewReader(content))
	if err != nil {
		log.Warn("[api] set icon failed", "address", account.String(), "err", err)
		return nil, ToRPCError(err)
	}
	return newIconInfo(account, id), nil
}

func newIconInfo(account common.Address, id cid.ID) *IconInfo {
	return &IconInfo{
		Address: account.String(),
		Cid:     id.String(),
		Integer: id.Big().String(),
	}
}

// NewInvalidArgsError new invalid args error
func NewInvalidArgsError(message string) error {
	return newRPCError(ErrCodeInvalidArgs, message)
}

// Package rpcapi provides the icon json-rpc service.
package rpcapi

import (
	"encoding/base64"
	"net/http"

	"github.com/anyswap/iconic/internal/iconapi"
	"github.com/anyswap/iconic/params"
)

// IconAPI rpc api handler
type IconAPI struct{}

// RPCNullArgs null args
type RPCNullArgs struct{}

// SetIconArgs set icon args, icon is base64 encoded
type SetIconArgs struct {
	Address string `json:"address"`
	Icon    string `json:"icon"`
}

// GetVersionInfo api
func (s *IconAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	version := params.VersionWithMeta
	*result = version
	return nil
}

// GetServerInfo api
func (s *IconAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *iconapi.ServerInfo) error {
	res, err := iconapi.GetServerInfo()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetCid api
func (s *IconAPI) GetCid(r *http.Request, address *string, result *iconapi.IconInfo) error {
	res, err := iconapi.GetIconCid(r.Context(), *address)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetIcon api, result is base64 encoded
func (s *IconAPI) GetIcon(r *http.Request, address *string, result *string) error {
	res, err := iconapi.GetIcon(r.Context(), *address)
	if err == nil {
		*result = base64.StdEncoding.EncodeToString(res)
	}
	return err
}

// SetIcon api
func (s *IconAPI) SetIcon(r *http.Request, args *SetIconArgs, result *iconapi.IconInfo) error {
	content, err := base64.StdEncoding.DecodeString(args.Icon)
	if err != nil {
		return iconapi.NewInvalidArgsError("icon is not base64 encoded: " + err.Error())
	}
	res, err := iconapi.SetIcon(r.Context(), args.Address, content)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

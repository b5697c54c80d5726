// Package restapi provides the icon rest api handlers.
package restapi

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/anyswap/iconic/internal/iconapi"
	"github.com/anyswap/iconic/params"
)

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	jsonData, err := json.Marshal(resp)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(jsonData)
}

func writeError(w http.ResponseWriter, err error) {
	rpcErr := iconapi.ToRPCError(err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(httpStatus(rpcErr.Code))
	fmt.Fprintln(w, rpcErr.Message)
}

func httpStatus(code rpcjson.ErrorCode) int {
	switch code {
	case iconapi.ErrCodeInvalidArgs:
		return http.StatusBadRequest
	case iconapi.ErrCodeNoIcon:
		return http.StatusNotFound
	case iconapi.ErrCodeContentTooLarge:
		return http.StatusRequestEntityTooLarge
	case iconapi.ErrCodeContentStore, iconapi.ErrCodeLedger:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// VersionInfoHandler handler
func VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	version := params.VersionWithMeta
	writeResponse(w, version, nil)
}

// ServerInfoHandler handler
func ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	res, err := iconapi.GetServerInfo()
	writeResponse(w, res, err)
}

// GetIconHandler handler, replies the raw icon content
func GetIconHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]
	content, err := iconapi.GetIcon(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(content))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// GetIconCidHandler handler
func GetIconCidHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]
	res, err := iconapi.GetIconCid(r.Context(), address)
	writeResponse(w, res, err)
}

// PostIconHandler handler, the request body is the icon content
func PostIconHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]

	var reader io.Reader = r.Body
	if maxSize := iconapi.MaxContentSize(); maxSize > 0 {
		reader = io.LimitReader(r.Body, maxSize+1)
	}
	content, err := ioutil.ReadAll(reader)
	if err != nil {
		writeError(w, fmt.Errorf("read request body failed: %w", err))
		return
	}
	res, err := iconapi.SetIcon(r.Context(), address, content)
	writeResponse(w, res, err)
}

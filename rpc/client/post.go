package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sync/atomic"
)

const (
	defaultTimeout = 60 // seconds

	maxReadContentLength int64 = 1024 * 1024 * 10 // 10M
)

var requestID uint64

// Request json rpc request
type Request struct {
	Method  string
	Params  interface{}
	Timeout int
	ID      uint64
}

// NewRequest new request
func NewRequest(method string, params ...interface{}) *Request {
	return NewRequestWithTimeout(defaultTimeout, method, params...)
}

// NewRequestWithTimeout new request with timeout
func NewRequestWithTimeout(timeout int, method string, params ...interface{}) *Request {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if params == nil {
		params = []interface{}{}
	}
	return &Request{
		Method:  method,
		Params:  params,
		Timeout: timeout,
		ID:      atomic.AddUint64(&requestID, 1),
	}
}

// RPCPost rpc post
func RPCPost(ctx context.Context, result interface{}, url, method string, params ...interface{}) error {
	req := NewRequest(method, params...)
	return RPCPostRequest(ctx, url, req, result)
}

// RPCPostWithTimeout rpc post with timeout
func RPCPostWithTimeout(ctx context.Context, timeout int, result interface{}, url, method string, params ...interface{}) error {
	req := NewRequestWithTimeout(timeout, method, params...)
	return RPCPostRequest(ctx, url, req, result)
}

// RequestBody request body
type RequestBody struct {
	Version string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      uint64      `json:"id"`
}

// Error is an error object returned by the rpc server
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (err *Error) Error() string {
	if err.Data != nil {
		return fmt.Sprintf("json-rpc error %d, %s (data: %v)", err.Code, err.Message, err.Data)
	}
	return fmt.Sprintf("json-rpc error %d, %s", err.Code, err.Message)
}

type jsonrpcResponse struct {
	Version string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// RPCPostRequest rpc post request
func RPCPostRequest(ctx context.Context, url string, req *Request, result interface{}) error {
	reqBody := &RequestBody{
		Version: "2.0",
		Method:  req.Method,
		Params:  req.Params,
		ID:      req.ID,
	}
	resp, err := HTTPPost(ctx, url, reqBody, nil, nil, req.Timeout)
	if err != nil {
		return err
	}
	return getResultFromJSONResponse(result, resp)
}

func getResultFromJSONResponse(result interface{}, resp *http.Response) error {
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxReadContentLength))
	if err != nil {
		return fmt.Errorf("read body error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wrong response status %v. message: %v", resp.StatusCode, string(body))
	}

	var jsonResp jsonrpcResponse
	err = json.Unmarshal(body, &jsonResp)
	if err != nil {
		return fmt.Errorf("unmarshal body error: %w", err)
	}
	if jsonResp.Error != nil {
		return fmt.Errorf("return error: %w", jsonResp.Error)
	}
	if len(jsonResp.Result) == 0 {
		// absent result is a null result
		return nil
	}
	err = json.Unmarshal(jsonResp.Result, result)
	if err != nil {
		return fmt.Errorf("unmarshal result error: %w", err)
	}
	return nil
}

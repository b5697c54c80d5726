// Package ledgertest provides a fake ethereum node serving the json-rpc calls
// the icon contract mapping uses, with an in-memory icon contract.
package ledgertest

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/ledger"
)

// error codes of the fake node
const (
	CodeExecution = -32000
	CodeNoMethod  = -32601
)

// Server is a fake ethereum node
type Server struct {
	*httptest.Server

	networkID string
	contract  common.Address
	abi       abi.ABI

	mu        sync.Mutex
	icons     map[common.Address]*big.Int
	senders   map[common.Address]common.Address
	receipts  map[common.Hash]uint64
	txCount   int64
	revert    bool
	pending   bool
	callError string
	calls     map[string]int
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type txArgs struct {
	From common.Address `json:"from"`
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

type receipt struct {
	TransactionHash common.Hash    `json:"transactionHash"`
	BlockNumber     *hexutil.Big   `json:"blockNumber"`
	GasUsed         hexutil.Uint64 `json:"gasUsed"`
	Status          hexutil.Uint64 `json:"status"`
}

// NewServer starts a fake node reporting networkID, callers should Close it.
// The icon contract lives at the address metadata records for networkID.
func NewServer(metadata []byte, networkID string) (*Server, error) {
	contract, err := ledger.ParseMetadata(metadata)
	if err != nil {
		return nil, err
	}
	address, err := contract.ContractAddress(networkID)
	if err != nil && !errors.Is(err, ledger.ErrNetworkNotDeployed) {
		return nil, err
	}
	s := &Server{
		networkID: networkID,
		contract:  address,
		abi:       contract.ABI,
		icons:     make(map[common.Address]*big.Int),
		senders:   make(map[common.Address]common.Address),
		receipts:  make(map[common.Hash]uint64),
		calls:     make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s, nil
}

// SetRevert makes following transactions fail with status 0 receipts
func (s *Server) SetRevert(revert bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revert = revert
}

// SetPending makes following transactions have no receipt
func (s *Server) SetPending(pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = pending
}

// SetCallError makes eth_call and eth_sendTransaction reply with an error object
func (s *Server) SetCallError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callError = message
}

// Icon returns the stored icon of owner
func (s *Server) Icon(owner common.Address) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if icon, exist := s.icons[owner]; exist {
		return new(big.Int).Set(icon)
	}
	return new(big.Int)
}

// Sender returns the sender of the last applied transaction of owner
func (s *Server) Sender(owner common.Address) common.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.senders[owner]
}

// Calls returns how many times method was called
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls[req.Method]++
	result, rpcErr := s.dispatch(&req)
	s.mu.Unlock()

	resp := &rpcResponse{
		Version: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   rpcErr,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) dispatch(req *rpcRequest) (interface{}, *rpcError) {
	switch req.Method {
	case "net_version":
		return s.networkID, nil
	case "eth_sendTransaction":
		var args txArgs
		if err := decodeParam(req.Params, &args); err != nil {
			return nil, err
		}
		return s.sendTransaction(&args)
	case "eth_getTransactionReceipt":
		var txHash common.Hash
		if err := decodeParam(req.Params, &txHash); err != nil {
			return nil, err
		}
		return s.getReceipt(txHash), nil
	case "eth_call":
		var args txArgs
		if err := decodeParam(req.Params, &args); err != nil {
			return nil, err
		}
		return s.call(&args)
	default:
		return nil, &rpcError{Code: CodeNoMethod, Message: "the method " + req.Method + " does not exist/is not available"}
	}
}

func decodeParam(params []json.RawMessage, v interface{}) *rpcError {
	if len(params) == 0 {
		return &rpcError{Code: -32602, Message: "missing value for required argument 0"}
	}
	if err := json.Unmarshal(params[0], v); err != nil {
		return &rpcError{Code: -32602, Message: "invalid argument 0: " + err.Error()}
	}
	return nil
}

func (s *Server) method(args *txArgs) (*abi.Method, []interface{}, *rpcError) {
	if s.callError != "" {
		return nil, nil, &rpcError{Code: CodeExecution, Message: s.callError}
	}
	if args.To != s.contract || len(args.Data) < 4 {
		return nil, nil, &rpcError{Code: CodeExecution, Message: "execution reverted"}
	}
	method, err := s.abi.MethodById(args.Data[:4])
	if err != nil {
		return nil, nil, &rpcError{Code: CodeExecution, Message: "execution reverted: " + err.Error()}
	}
	inputs, err := method.Inputs.Unpack(args.Data[4:])
	if err != nil {
		return nil, nil, &rpcError{Code: CodeExecution, Message: "execution reverted: " + err.Error()}
	}
	return method, inputs, nil
}

func (s *Server) sendTransaction(args *txArgs) (interface{}, *rpcError) {
	method, inputs, rpcErr := s.method(args)
	if rpcErr != nil {
		return nil, rpcErr
	}

	s.txCount++
	txHash := ethcommon.BigToHash(big.NewInt(s.txCount))
	status := uint64(1)
	if s.revert {
		status = 0
	}
	if !s.pending {
		s.receipts[txHash] = status
	}
	if status == 0 || method.Name != "setIcon" {
		return txHash, nil
	}

	owner := args.From
	var icon *big.Int
	for _, input := range inputs {
		switch v := input.(type) {
		case common.Address:
			owner = v
		case *big.Int:
			icon = v
		}
	}
	s.icons[owner] = icon
	s.senders[owner] = args.From
	return txHash, nil
}

func (s *Server) getReceipt(txHash common.Hash) interface{} {
	status, exist := s.receipts[txHash]
	if !exist {
		return nil
	}
	return &receipt{
		TransactionHash: txHash,
		BlockNumber:     (*hexutil.Big)(big.NewInt(s.txCount)),
		GasUsed:         hexutil.Uint64(43000),
		Status:          hexutil.Uint64(status),
	}
}

func (s *Server) call(args *txArgs) (interface{}, *rpcError) {
	method, inputs, rpcErr := s.method(args)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if method.Name != "getIcon" {
		return hexutil.Bytes{}, nil
	}
	owner, _ := inputs[0].(common.Address)
	icon, exist := s.icons[owner]
	if !exist {
		icon = new(big.Int)
	}
	output, err := method.Outputs.Pack(icon)
	if err != nil {
		return nil, &rpcError{Code: CodeExecution, Message: err.Error()}
	}
	return hexutil.Bytes(output), nil
}

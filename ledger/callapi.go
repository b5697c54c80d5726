package ledger

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/rpc/client"
)

type txReceipt struct {
	TransactionHash common.Hash     `json:"transactionHash"`
	BlockNumber     *hexutil.Big    `json:"blockNumber"`
	GasUsed         *hexutil.Uint64 `json:"gasUsed"`
	Status          *hexutil.Uint64 `json:"status"`
}

type sendTxArgs struct {
	From     common.Address  `json:"from"`
	To       common.Address  `json:"to"`
	Data     hexutil.Bytes   `json:"data"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
}

type callArgs struct {
	To   common.Address `json:"to"`
	Data hexutil.Bytes  `json:"data"`
}

// call net_version
func (m *Mapping) getNetworkID(ctx context.Context) (string, error) {
	var result string
	err := client.RPCPostWithTimeout(ctx, m.timeout, &result, m.url, "net_version")
	if err != nil {
		return "", wrapRPCError(err, "net_version")
	}
	return strings.TrimSpace(result), nil
}

// call eth_sendTransaction, the sender must be unlocked on the node
func (m *Mapping) sendTransaction(ctx context.Context, args *sendTxArgs) (txHash common.Hash, err error) {
	err = client.RPCPostWithTimeout(ctx, m.timeout, &txHash, m.url, "eth_sendTransaction", args)
	if err != nil {
		return common.Hash{}, wrapCallError(err, "eth_sendTransaction")
	}
	return txHash, nil
}

// call eth_getTransactionReceipt, nil receipt means pending
func (m *Mapping) getTransactionReceipt(ctx context.Context, txHash common.Hash) (receipt *txReceipt, err error) {
	err = client.RPCPostWithTimeout(ctx, m.timeout, &receipt, m.url, "eth_getTransactionReceipt", txHash)
	if err != nil {
		return nil, wrapRPCError(err, "eth_getTransactionReceipt")
	}
	return receipt, nil
}

// call eth_call at latest block
func (m *Mapping) callContract(ctx context.Context, data []byte) (hexutil.Bytes, error) {
	var result hexutil.Bytes
	args := &callArgs{
		To:   m.address,
		Data: data,
	}
	err := client.RPCPostWithTimeout(ctx, m.timeout, &result, m.url, "eth_call", args, "latest")
	if err != nil {
		return nil, wrapCallError(err, "eth_call")
	}
	return result, nil
}

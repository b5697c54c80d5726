// Package ledger maps account addresses to icon integers through the icon contract.
package ledger

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/log"
	"github.com/anyswap/iconic/params"
	"github.com/anyswap/iconic/rpc/client"
)

// Mapping is a connection to a deployed icon contract.
// It is immutable after Connect and safe for concurrent use.
type Mapping struct {
	url       string
	timeout   int
	from      *common.Address
	gas       *hexutil.Uint64
	gasPrice  *hexutil.Big
	networkID string
	address   common.Address
	abi       abi.ABI
}

// ConnectWithConfig connect with the metadata configured in config
func ConnectWithConfig(ctx context.Context, config *params.EthereumConfig) (*Mapping, error) {
	metadata, err := LoadMetadataFile(config.MetadataFile)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, config, metadata)
}

// Connect resolve the contract deployed on the network of the configured node
func Connect(ctx context.Context, config *params.EthereumConfig, metadata []byte) (*Mapping, error) {
	contract, err := ParseMetadata(metadata)
	if err != nil {
		return nil, err
	}

	m := &Mapping{
		url:     config.APIAddress,
		timeout: config.Timeout,
		abi:     contract.ABI,
	}
	if config.From != "" {
		from, errf := common.ParseAddress(config.From)
		if errf != nil {
			return nil, fmt.Errorf("wrong sender %v: %w", config.From, errf)
		}
		m.from = &from
	}
	if config.Gas != 0 {
		gas := hexutil.Uint64(config.Gas)
		m.gas = &gas
	}
	if config.GasPrice != "" {
		gasPrice, errf := common.GetBigIntFromStr(config.GasPrice)
		if errf != nil {
			return nil, fmt.Errorf("wrong gas price %v: %w", config.GasPrice, errf)
		}
		m.gasPrice = (*hexutil.Big)(gasPrice)
	}

	m.networkID, err = m.getNetworkID(ctx)
	if err != nil {
		return nil, err
	}
	m.address, err = contract.ContractAddress(m.networkID)
	if err != nil {
		return nil, err
	}

	log.Info("connect icon contract success", "url", m.url, "networkID", m.networkID, "contract", m.address.String())
	return m, nil
}

// NetworkID network id reported by the node
func (m *Mapping) NetworkID() string {
	return m.networkID
}

// Address contract address
func (m *Mapping) Address() common.Address {
	return m.address
}

// Close release idle connections
func (m *Mapping) Close() error {
	client.CloseIdleConnections()
	return nil
}

// Set store value for key, returns the transaction hash.
// A transaction still pending when the receipt is queried counts as sent.
func (m *Mapping) Set(ctx context.Context, key common.Address, value *big.Int) (common.Hash, error) {
	if !common.IsUint256(value) {
		return common.Hash{}, fmt.Errorf("%w: icon value out of uint256 range", ErrContractCall)
	}
	input, err := m.packSetIcon(key, value)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: pack %v: %v", ErrContractCall, setIconMethod, err)
	}

	from := key
	if m.from != nil {
		from = *m.from
	}
	args := &sendTxArgs{
		From:     from,
		To:       m.address,
		Data:     input,
		Gas:      m.gas,
		GasPrice: m.gasPrice,
	}
	txHash, err := m.sendTransaction(ctx, args)
	if err != nil {
		return common.Hash{}, err
	}

	receipt, err := m.getTransactionReceipt(ctx, txHash)
	if err != nil {
		return txHash, err
	}
	if receipt == nil {
		log.Info("set icon transaction is pending", "key", key.String(), "txHash", txHash.String())
		return txHash, nil
	}
	if receipt.Status == nil || *receipt.Status == 0 {
		return txHash, fmt.Errorf("%w: %v transaction %v reverted", ErrContractCall, setIconMethod, txHash.String())
	}
	log.Debug("set icon success", "key", key.String(), "txHash", txHash.String(), "blockNumber", receipt.BlockNumber)
	return txHash, nil
}

// Get value stored for key, zero if never set
func (m *Mapping) Get(ctx context.Context, key common.Address) (*big.Int, error) {
	input, err := m.abi.Pack(getIconMethod, key)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %v: %v", ErrContractCall, getIconMethod, err)
	}
	output, err := m.callContract(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("%w: %v returns empty result from %v", ErrContractCall, getIconMethod, m.address.String())
	}
	results, err := m.abi.Unpack(getIconMethod, output)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %v: %v", ErrContractCall, getIconMethod, err)
	}
	value, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %v returns %T", ErrContractCall, getIconMethod, results[0])
	}
	return value, nil
}

// uint256 inputs take the value, address inputs take the key
func (m *Mapping) packSetIcon(key common.Address, value *big.Int) ([]byte, error) {
	method := m.abi.Methods[setIconMethod]
	args := make([]interface{}, 0, len(method.Inputs))
	for _, input := range method.Inputs {
		if input.Type.T == abi.AddressTy {
			args = append(args, key)
		} else {
			args = append(args, value)
		}
	}
	return m.abi.Pack(setIconMethod, args...)
}

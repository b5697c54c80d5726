package ledger_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/ledger"
	"github.com/anyswap/iconic/ledger/ledgertest"
	"github.com/anyswap/iconic/params"
)

const testNetworkID = "5777"

var (
	alice = common.MustParseAddress("0xb794f5ea0ba39494ce839613fffba74279579268")
	bob   = common.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
)

func newTestNode(t *testing.T, metadata []byte, networkID string) *ledgertest.Server {
	node, err := ledgertest.NewServer(metadata, networkID)
	require.NoError(t, err)
	t.Cleanup(node.Close)
	return node
}

func testConfig(url string) *params.EthereumConfig {
	return &params.EthereumConfig{
		APIAddress: url,
		Timeout:    5,
	}
}

func connect(t *testing.T, node *ledgertest.Server, metadata []byte) *ledger.Mapping {
	m, err := ledger.Connect(context.Background(), testConfig(node.URL), metadata)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestConnect(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)

	assert.Equal(t, testNetworkID, m.NetworkID())
	assert.Equal(t, common.MustParseAddress("0x1F5A6B1c6E1E1e9Bd1c1E8d1aD3B6d9C5E1a2B3C"), m.Address())
	assert.Equal(t, 1, node.Calls("net_version"))
}

func TestConnectNotDeployed(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, "1")

	_, err := ledger.Connect(context.Background(), testConfig(node.URL), metadata)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrNetworkNotDeployed))
	assert.True(t, ledger.IsFatal(err))
}

func TestConnectUnreachable(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	url := node.URL
	node.Close()

	_, err := ledger.Connect(context.Background(), testConfig(url), metadata)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrRPCFailure))
	assert.False(t, ledger.IsFatal(err))
}

func TestConnectWithConfig(t *testing.T) {
	node := newTestNode(t, ledger.EmbeddedMetadata(), testNetworkID)

	m, err := ledger.ConnectWithConfig(context.Background(), testConfig(node.URL))
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, testNetworkID, m.NetworkID())

	config := testConfig(node.URL)
	config.MetadataFile = "/nonexistent/Icon.json"
	_, err = ledger.ConnectWithConfig(context.Background(), config)
	assert.True(t, errors.Is(err, ledger.ErrInvalidMetadata))
}

func TestConnectWrongConfig(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)

	config := testConfig(node.URL)
	config.From = "0x1234"
	_, err := ledger.Connect(context.Background(), config, metadata)
	assert.True(t, errors.Is(err, common.ErrInvalidAddress))

	config = testConfig(node.URL)
	config.GasPrice = "-1"
	_, err = ledger.Connect(context.Background(), config, metadata)
	assert.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)
	ctx := context.Background()

	value, err := m.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, value.Sign(), "never written reads zero")

	first := big.NewInt(123456789)
	txHash, err := m.Set(ctx, alice, first)
	require.NoError(t, err)
	assert.NotEqual(t, common.Hash{}, txHash)
	assert.Equal(t, alice, node.Sender(alice), "sender defaults to the key")

	value, err = m.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Cmp(value))

	second := new(big.Int).Set(common.BigMaxUint256)
	_, err = m.Set(ctx, alice, second)
	require.NoError(t, err)
	value, err = m.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Cmp(value), "overwrite keeps the latest")

	value, err = m.Get(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 0, value.Sign())
	assert.Equal(t, 2, node.Calls("eth_getTransactionReceipt"))
}

func TestSetFromConfiguredSender(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	config := testConfig(node.URL)
	config.From = bob.String()
	config.Gas = 90000
	config.GasPrice = "0x3b9aca00"
	m, err := ledger.Connect(context.Background(), config, metadata)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Set(context.Background(), alice, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, bob, node.Sender(alice))
	assert.Equal(t, int64(7), node.Icon(alice).Int64())
}

func TestSetSingleArgument(t *testing.T) {
	metadata := singleArgumentMetadata(t)
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)
	ctx := context.Background()

	_, err := m.Set(ctx, bob, big.NewInt(42))
	require.NoError(t, err)
	value, err := m.Get(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(42), value.Int64())
}

func TestSetOutOfRange(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)

	tooBig := new(big.Int).Add(common.BigMaxUint256, common.Big1)
	for _, value := range []*big.Int{nil, big.NewInt(-1), tooBig} {
		_, err := m.Set(context.Background(), alice, value)
		assert.True(t, errors.Is(err, ledger.ErrContractCall))
	}
	assert.Equal(t, 0, node.Calls("eth_sendTransaction"))
}

func TestSetReverted(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)
	node.SetRevert(true)

	txHash, err := m.Set(context.Background(), alice, big.NewInt(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrContractCall))
	assert.NotEqual(t, common.Hash{}, txHash)
	assert.Equal(t, 0, node.Icon(alice).Sign())
}

func TestSetPending(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)
	node.SetPending(true)

	_, err := m.Set(context.Background(), alice, big.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, 1, node.Calls("eth_getTransactionReceipt"))
}

func TestContractCallError(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)
	node.SetCallError("sender account not recognized")

	_, err := m.Set(context.Background(), alice, big.NewInt(1))
	assert.True(t, errors.Is(err, ledger.ErrContractCall))
	assert.True(t, strings.Contains(err.Error(), "sender account not recognized"))

	_, err = m.Get(context.Background(), alice)
	assert.True(t, errors.Is(err, ledger.ErrContractCall))
}

func TestRPCFailure(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)
	node.Close()

	_, err := m.Set(context.Background(), alice, big.NewInt(1))
	assert.True(t, errors.Is(err, ledger.ErrRPCFailure))

	_, err = m.Get(context.Background(), alice)
	assert.True(t, errors.Is(err, ledger.ErrRPCFailure))
}

func TestGetCanceled(t *testing.T) {
	metadata := ledger.EmbeddedMetadata()
	node := newTestNode(t, metadata, testNetworkID)
	m := connect(t, node, metadata)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Get(ctx, alice)
	assert.True(t, errors.Is(err, ledger.ErrRPCFailure))
}

func TestParseMetadata(t *testing.T) {
	contract, err := ledger.ParseMetadata(ledger.EmbeddedMetadata())
	require.NoError(t, err)
	assert.Contains(t, contract.ABI.Methods, "setIcon")
	assert.Contains(t, contract.ABI.Methods, "getIcon")

	_, err = contract.ContractAddress("1")
	assert.True(t, errors.Is(err, ledger.ErrNetworkNotDeployed))

	bad := []string{
		`not json`,
		`{"abi": [], "networks": {}}`,
		`{"abi": [` + getIconABI + `], "networks": {}}`,
		`{"abi": [` + setIconABI(`{"name":"icon","type":"string"}`) + `,` + getIconABI + `], "networks": {}}`,
		`{"abi": [` + setIconABI(`{"name":"a","type":"uint256"},{"name":"b","type":"uint256"}`) + `,` + getIconABI + `], "networks": {}}`,
	}
	for _, doc := range bad {
		_, err = ledger.ParseMetadata([]byte(doc))
		assert.True(t, errors.Is(err, ledger.ErrInvalidMetadata), doc)
	}

	contract, err = ledger.ParseMetadata([]byte(`{"abi": [` + setIconABI(`{"name":"icon","type":"uint256"}`) + `,` + getIconABI + `], "networks": {"3": {"address": "0xzz"}}}`))
	require.NoError(t, err)
	_, err = contract.ContractAddress("3")
	assert.True(t, errors.Is(err, ledger.ErrInvalidMetadata))
}

const getIconABI = `{"name":"getIcon","type":"function","stateMutability":"view",` +
	`"inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}`

func setIconABI(inputs string) string {
	return `{"name":"setIcon","type":"function","stateMutability":"nonpayable","inputs":[` + inputs + `],"outputs":[]}`
}

func singleArgumentMetadata(t *testing.T) []byte {
	t.Helper()
	return []byte(`{"abi": [` + setIconABI(`{"name":"icon","type":"uint256"}`) + `,` + getIconABI + `],` +
		`"networks": {"` + testNetworkID + `": {"address": "0x0000000000000000000000000000000000001c0e"}}}`)
}

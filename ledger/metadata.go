package ledger

import (
	_ "embed" // embed contract metadata
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/anyswap/iconic/common"
)

// contract methods
const (
	setIconMethod = "setIcon"
	getIconMethod = "getIcon"
)

//go:embed contracts/Icon.json
var embeddedMetadata []byte

// EmbeddedMetadata returns the contract metadata compiled into the binary
func EmbeddedMetadata() []byte {
	return embeddedMetadata
}

// LoadMetadataFile read contract metadata from file, or the embedded one if file is empty
func LoadMetadataFile(file string) ([]byte, error) {
	if file == "" {
		return EmbeddedMetadata(), nil
	}
	data, err := ioutil.ReadFile(common.ExpandPath(file))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return data, nil
}

// Metadata is the abi of the icon contract and its deployed addresses
type Metadata struct {
	ABI      abi.ABI            `json:"abi"`
	Networks map[string]Network `json:"networks"`
}

// Network is a deployment of the icon contract
type Network struct {
	Address string `json:"address"`
}

// ParseMetadata parse and verify contract metadata document
func ParseMetadata(data []byte) (*Metadata, error) {
	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if err := verifyABI(&metadata.ABI); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return &metadata, nil
}

// ContractAddress get deployed address of network
func (m *Metadata) ContractAddress(networkID string) (common.Address, error) {
	network, exist := m.Networks[networkID]
	if !exist {
		return common.Address{}, fmt.Errorf("%w: network %v", ErrNetworkNotDeployed, networkID)
	}
	address, err := common.ParseAddress(network.Address)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: network %v: %v", ErrInvalidMetadata, networkID, err)
	}
	return address, nil
}

// setIcon takes an uint256 and optionally the owner address,
// getIcon takes the owner address and returns an uint256.
func verifyABI(contractABI *abi.ABI) error {
	setIcon, exist := contractABI.Methods[setIconMethod]
	if !exist {
		return fmt.Errorf("no %v method in abi", setIconMethod)
	}
	var uints, addresses int
	for _, input := range setIcon.Inputs {
		switch {
		case isUint256(input.Type):
			uints++
		case input.Type.T == abi.AddressTy:
			addresses++
		default:
			return fmt.Errorf("unsupported %v input type %v", setIconMethod, input.Type)
		}
	}
	if uints != 1 || addresses > 1 {
		return fmt.Errorf("wrong %v inputs %v", setIconMethod, setIcon.Sig)
	}

	getIcon, exist := contractABI.Methods[getIconMethod]
	if !exist {
		return fmt.Errorf("no %v method in abi", getIconMethod)
	}
	if len(getIcon.Inputs) != 1 || getIcon.Inputs[0].Type.T != abi.AddressTy {
		return fmt.Errorf("wrong %v inputs %v", getIconMethod, getIcon.Sig)
	}
	if len(getIcon.Outputs) != 1 || !isUint256(getIcon.Outputs[0].Type) {
		return fmt.Errorf("wrong %v outputs", getIconMethod)
	}
	return nil
}

func isUint256(t abi.Type) bool {
	return t.T == abi.UintTy && t.Size == 256
}

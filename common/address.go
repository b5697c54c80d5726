package common

import (
	"errors"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// AddressLength is the byte length of an account address
const AddressLength = ethcommon.AddressLength

// Address is a 20 bytes ethereum account address
type Address = ethcommon.Address

// Hash is a 32 bytes transaction hash
type Hash = ethcommon.Hash

// ErrInvalidAddress invalid address
var ErrInvalidAddress = errors.New("invalid address")

// ParseAddress parse hex address with or without 0x prefix.
// It requires exactly 40 hex digits and does not verify checksum.
func ParseAddress(address string) (Address, error) {
	if !ethcommon.IsHexAddress(address) {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return ethcommon.HexToAddress(address), nil
}

// MustParseAddress is like ParseAddress but panics on error
func MustParseAddress(address string) Address {
	addr, err := ParseAddress(address)
	if err != nil {
		panic(err)
	}
	return addr
}

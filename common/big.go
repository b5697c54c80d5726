package common

import (
	"errors"
	"math/big"
	"strings"
)

// Common big integers often used
var (
	Big1 = big.NewInt(1)

	// BigMaxUint256 is the largest value an uint256 contract word can hold
	BigMaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(Big1, 256), Big1)
)

var errInvalidBig256 = errors.New("invalid 256 bit integer")

// IsUint256 is bi in the range of solidity uint256
func IsUint256(bi *big.Int) bool {
	return bi != nil && bi.Sign() >= 0 && bi.Cmp(BigMaxUint256) <= 0
}

// GetBigIntFromStr parse decimal or 0x prefixed hex string to big int
func GetBigIntFromStr(str string) (*big.Int, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, errInvalidBig256
	}
	bi, ok := new(big.Int).SetString(str, 0)
	if !ok || !IsUint256(bi) {
		return nil, errors.New(errInvalidBig256.Error() + ": " + str)
	}
	return bi, nil
}

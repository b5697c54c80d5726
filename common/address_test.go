package common

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	withPrefix, err := ParseAddress("0xAABBCCDDEEFF00112233445566778899AABBCCDD")
	require.NoError(t, err)
	withoutPrefix, err := ParseAddress("AABBCCDDEEFF00112233445566778899AABBCCDD")
	require.NoError(t, err)
	assert.Equal(t, withPrefix, withoutPrefix)
	assert.Equal(t, byte(0xaa), withPrefix[0])
	assert.Equal(t, byte(0xdd), withPrefix[AddressLength-1])

	lower, err := ParseAddress("0xaabbccddeeff00112233445566778899aabbccdd")
	require.NoError(t, err)
	assert.Equal(t, withPrefix, lower)

	invalids := []string{
		"",
		"0x",
		"0xAABBCCDDEEFF00112233445566778899AABBCC",
		"AABBCCDDEEFF00112233445566778899AABBCCDDEE",
		"0xZZBBCCDDEEFF00112233445566778899AABBCCDD",
	}
	for _, s := range invalids {
		_, err := ParseAddress(s)
		assert.True(t, errors.Is(err, ErrInvalidAddress), "address %q", s)
	}
	assert.Panics(t, func() { MustParseAddress("0x1234") })
}

func TestGetBigIntFromStr(t *testing.T) {
	bi, err := GetBigIntFromStr("20000000000")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20000000000), bi)

	bi, err = GetBigIntFromStr("0x4a817c800")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20000000000), bi)

	_, err = GetBigIntFromStr("-1")
	assert.Error(t, err)
	_, err = GetBigIntFromStr("0x1" + "0000000000000000000000000000000000000000000000000000000000000000")
	assert.Error(t, err)
	_, err = GetBigIntFromStr("")
	assert.Error(t, err)

	assert.True(t, IsUint256(BigMaxUint256))
	assert.False(t, IsUint256(new(big.Int).Add(BigMaxUint256, Big1)))
	assert.False(t, IsUint256(nil))
}

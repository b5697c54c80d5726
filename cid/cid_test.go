package cid

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCid = "QmarB2kBKuFyEPUhQVjtzMo9f8GTdDuiaPjKAD9camBhn5"

func TestRoundTripKnownCid(t *testing.T) {
	id, err := Parse(testCid)
	require.NoError(t, err)
	assert.True(t, id.IsValid())
	assert.Equal(t, testCid, id.String())

	decoded, err := FromBig(id.Big())
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
	assert.Equal(t, testCid, decoded.String())
	assert.Equal(t, []byte{0x12, 0x20}, decoded.Bytes()[:2])
	assert.Equal(t, id.Digest(), decoded.Bytes()[2:])
}

func TestRoundTripRandomDigests(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	digest := make([]byte, DigestSize)
	for i := 0; i < 200; i++ {
		rnd.Read(digest)
		if i%10 == 0 {
			// leading zero bytes must survive the integer form
			digest[0], digest[1] = 0, 0
		}
		id, err := FromBig(new(big.Int).SetBytes(digest))
		require.NoError(t, err)
		assert.Equal(t, digest, id.Digest())

		text := id.String()
		assert.True(t, strings.HasPrefix(text, "Qm"), text)
		parsed, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)

		fromInt, err := FromBig(parsed.Big())
		require.NoError(t, err)
		assert.Equal(t, id, fromInt)
	}
}

func TestZeroInteger(t *testing.T) {
	id, err := FromBig(big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, id.IsValid())
	assert.Equal(t, 0, id.Big().Sign())
	assert.True(t, strings.HasPrefix(id.String(), "Qm"))
	assert.False(t, ID{}.IsValid())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("ZmInvalidPrefix...")
	assert.True(t, errors.Is(err, ErrInvalidPrefix), err)

	_, err = Parse("")
	assert.True(t, errors.Is(err, ErrInvalidPrefix), err)

	_, err = Parse("Qm" + "not-base58-!!!")
	assert.True(t, errors.Is(err, ErrInvalidEncoding), err)

	// valid alphabet but too short
	_, err = Parse("QmarB2kBKuFy")
	assert.True(t, errors.Is(err, ErrInvalidEncoding), err)

	// valid alphabet but too long
	_, err = Parse(testCid + "z")
	assert.True(t, errors.Is(err, ErrInvalidEncoding), err)

	assert.Panics(t, func() { MustParse("bafy") })
}

func TestFromBigRange(t *testing.T) {
	_, err := FromBig(nil)
	assert.True(t, errors.Is(err, ErrIntegerRange))

	_, err = FromBig(big.NewInt(-1))
	assert.True(t, errors.Is(err, ErrIntegerRange))

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = FromBig(tooBig)
	assert.True(t, errors.Is(err, ErrIntegerRange))

	maxValue := new(big.Int).Sub(tooBig, big.NewInt(1))
	id, err := FromBig(maxValue)
	require.NoError(t, err)
	assert.Equal(t, maxValue, id.Big())
}

func TestSum(t *testing.T) {
	data := []byte("icon bytes")
	id, err := Sum(data)
	require.NoError(t, err)
	digest := sha256.Sum256(data)
	assert.Equal(t, digest[:], id.Digest())

	again, err := Sum(data)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := Sum([]byte("other bytes"))
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestTextMarshal(t *testing.T) {
	type record struct {
		Cid ID `json:"cid"`
	}
	id := MustParse(testCid)
	bs, err := json.Marshal(record{Cid: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cid":"`+testCid+`"}`, string(bs))

	var decoded record
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assert.Equal(t, id, decoded.Cid)

	err = json.Unmarshal([]byte(`{"cid":"Zm123"}`), &decoded)
	assert.True(t, errors.Is(err, ErrInvalidPrefix))

	_, err = json.Marshal(record{})
	assert.Error(t, err)
}

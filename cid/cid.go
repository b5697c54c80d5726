// Package cid converts IPFS version 0 content identifiers to and from
// the uint256 words stored by the icon contract.
//
// A version 0 identifier is a sha2-256 multihash: the two tag bytes
// 0x12 0x20 followed by a 32 bytes digest. Only the digest is stored on
// chain, the tag is restored as a constant when decoding.
package cid

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	mh "github.com/multiformats/go-multihash"
)

const (
	// Size is the length of a raw identifier
	Size = 34
	// DigestSize is the length of the sha2-256 digest part
	DigestSize = 32

	tagSize    = Size - DigestSize
	textPrefix = "Qm"
)

var tag = [tagSize]byte{mh.SHA2_256, DigestSize}

// codec errors
var (
	ErrInvalidPrefix   = errors.New("invalid cid prefix")
	ErrInvalidEncoding = errors.New("invalid cid encoding")
	ErrIntegerRange    = errors.New("cid integer out of uint256 range")
)

// ID is a version 0 content identifier.
// The zero value is not a valid identifier, use Parse or FromBig.
type ID struct {
	raw [Size]byte
}

// Parse parses the base58 text form of an identifier
func Parse(text string) (ID, error) {
	if !strings.HasPrefix(text, textPrefix) {
		return ID{}, fmt.Errorf("%w: %q does not start with %q", ErrInvalidPrefix, text, textPrefix)
	}
	bs := base58.Decode(text)
	if len(bs) != Size {
		return ID{}, fmt.Errorf("%w: %q decodes to %d bytes, want %d", ErrInvalidEncoding, text, len(bs), Size)
	}
	if err := checkMultihash(bs); err != nil {
		return ID{}, fmt.Errorf("%w: %q: %v", ErrInvalidEncoding, text, err)
	}
	var id ID
	copy(id.raw[:], bs)
	return id, nil
}

// MustParse is like Parse but panics on error
func MustParse(text string) ID {
	id, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return id
}

// FromBig builds an identifier from the uint256 value of its digest
func FromBig(value *big.Int) (ID, error) {
	if value == nil || value.Sign() < 0 || value.BitLen() > DigestSize*8 {
		return ID{}, fmt.Errorf("%w: %v", ErrIntegerRange, value)
	}
	var id ID
	copy(id.raw[:tagSize], tag[:])
	value.FillBytes(id.raw[tagSize:])
	return id, nil
}

// Sum returns the identifier of the sha2-256 digest of data
func Sum(data []byte) (ID, error) {
	hash, err := mh.Sum(data, mh.SHA2_256, DigestSize)
	if err != nil {
		return ID{}, err
	}
	return FromBig(new(big.Int).SetBytes(hash[tagSize:]))
}

func checkMultihash(bs []byte) error {
	decoded, err := mh.Decode(bs)
	if err != nil {
		return err
	}
	if decoded.Code != mh.SHA2_256 || decoded.Length != DigestSize {
		return fmt.Errorf("unsupported multihash %v with length %d", mh.Codes[decoded.Code], decoded.Length)
	}
	return nil
}

// IsValid reports whether id was built by Parse or FromBig
func (id ID) IsValid() bool {
	return id.raw[0] == tag[0] && id.raw[1] == tag[1]
}

// String returns the base58 text form
func (id ID) String() string {
	return base58.Encode(id.raw[:])
}

// Big returns the digest as an uint256 value
func (id ID) Big() *big.Int {
	return new(big.Int).SetBytes(id.raw[tagSize:])
}

// Bytes returns a copy of the raw 34 bytes
func (id ID) Bytes() []byte {
	bs := make([]byte, Size)
	copy(bs, id.raw[:])
	return bs
}

// Digest returns a copy of the sha2-256 digest
func (id ID) Digest() []byte {
	bs := make([]byte, DigestSize)
	copy(bs, id.raw[tagSize:])
	return bs
}

// MarshalText implements encoding.TextMarshaler
func (id ID) MarshalText() ([]byte, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: marshal uninitialized cid", ErrInvalidEncoding)
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ID) UnmarshalText(input []byte) error {
	parsed, err := Parse(string(input))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

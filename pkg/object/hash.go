package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashSize is the length of a raw object id in bytes.
const HashSize = sha1.Size

// Hash is a raw SHA-1 object id. The zero value means "no object".
type Hash [HashSize]byte

// ZeroHash is the all-zero id.
var ZeroHash Hash

// String returns the 40-character lowercase hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero id.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// ParseHash parses a 40-character hex id. Upper-case digits are accepted.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != 2*HashSize {
		return h, fmt.Errorf("%w: object id %q: want %d hex characters, got %d", ErrInvalidArguments, s, 2*HashSize, len(s))
	}
	if _, err := hex.Decode(h[:], []byte(strings.ToLower(s))); err != nil {
		return ZeroHash, fmt.Errorf("%w: object id %q: %v", ErrInvalidArguments, s, err)
	}
	return h, nil
}

// MustParseHash is like ParseHash but panics on malformed input. It is meant
// for constants and tests.
func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// HashBytes computes the raw SHA-1 of data.
func HashBytes(data []byte) Hash {
	return Hash(sha1.Sum(data))
}

// HashObject computes the SHA-1 of the envelope "type len\0content" without
// materializing the envelope.
func HashObject(objType ObjectType, data []byte) Hash {
	var h Hash
	d := sha1.New()
	d.Write(envelopeHeader(objType, len(data)))
	d.Write(data)
	copy(h[:], d.Sum(nil))
	return h
}

// EmptyTreeHash is the id of a tree with no entries.
var EmptyTreeHash = MustParseHash("4b825dc642cb6eb9a060e54bf8d69288fbee4904")

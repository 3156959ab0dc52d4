// Package hashing computes the fixed-width entity digest and extracts the
// hierarchical derivation index from it.
//
// Every hash function normalizes to a 64-byte digest so downstream tree
// derivation stays hash-agnostic.
package hashing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

// DigestSize is the normalized digest width in bytes.
const DigestSize = 64

// Digest hashes canonical entity bytes with the configured function.
//
// hmac_sha512 keys the digest with rootSecret, tying every derived key to
// the secret before tree derivation even begins. blake2b and sha256 ignore
// rootSecret; sha256 output is zero-padded on the right to DigestSize.
func Digest(fn model.HashFunction, canonical, rootSecret []byte) ([DigestSize]byte, error) {
	var out [DigestSize]byte
	switch fn {
	case model.HashHmacSHA512:
		mac := hmac.New(sha512.New, rootSecret)
		mac.Write(canonical)
		copy(out[:], mac.Sum(nil))
	case model.HashBlake2b:
		sum := blake2b.Sum512(canonical)
		copy(out[:], sum[:])
	case model.HashSHA256:
		sum := sha256.Sum256(canonical)
		copy(out[:], sum[:])
	default:
		return out, model.NewError(model.KindUnsupportedHashFunction, model.StageHash,
			"unsupported hash function \""+string(fn)+"\"")
	}
	return out, nil
}

// Index extracts the derivation index: the big-endian uint32 formed from the
// first four digest bytes, before any hardening transform.
func Index(digest [DigestSize]byte) uint32 {
	return binary.BigEndian.Uint32(digest[:4])
}

package entity

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ID returns the entity identifier: a CIDv1 string (raw multicodec +
// sha2-256 multihash) over the canonical entity bytes. Two documents with
// semantically identical payloads share an ID regardless of formatting.
func (d *Document) ID() (string, error) {
	canonical, err := d.CanonicalBytes()
	if err != nil {
		return "", err
	}
	return IDForCanonical(canonical), nil
}

// IDForCanonical derives the CID for already-canonical entity bytes.
func IDForCanonical(canonical []byte) string {
	sum, err := multihash.Sum(canonical, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum with SHA2_256 and default length cannot fail on
		// any input; this branch is unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

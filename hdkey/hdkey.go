// Package hdkey walks the fixed-shape hierarchical key tree rooted at the
// master key seeded by the root secret.
//
// The tree has exactly three levels below the master:
//
//	m / 83696968' / 67797668' / {entity index}
//
// The first two indices are immutable namespace constants that separate this
// derivation scheme from unrelated uses of the same root secret; the third is
// the per-entity index extracted from the entity digest. Derivation follows
// the SLIP-0010 Ed25519 construction: HMAC-SHA-512 keyed by the parent chain
// code over 0x00 || parent key || ser32(index).
package hdkey

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"strconv"

	"golang.org/x/crypto/ripemd160"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

const (
	// AppIndex is the first namespace level (the BIP-85 application number).
	AppIndex uint32 = 83696968
	// KeychainIndex is the second namespace level, specific to this scheme.
	KeychainIndex uint32 = 67797668

	// HardenedOffset is the hardened-derivation index bit.
	HardenedOffset uint32 = 0x80000000

	// MaxDepth is a defensive bound on tree depth. The fixed-shape tree
	// never exceeds depth 3; hitting this limit indicates misuse.
	MaxDepth = 16

	// RootSecretSize is the required root secret length in bytes.
	RootSecretSize = 64
)

// masterHMACKey seeds master-key generation, per the Ed25519 HD standard.
var masterHMACKey = []byte("ed25519 seed")

// Node is one point in the derivation tree: 32 bytes of key material plus
// the chain code that carries derivation entropy to children.
type Node struct {
	Key               [32]byte
	ChainCode         [32]byte
	Depth             uint8
	ChildIndex        uint32
	ParentFingerprint [4]byte
}

// NewMaster seeds the master node from the 64-byte root secret.
// A secret of the wrong length fails with KindInvalidSeed.
func NewMaster(rootSecret []byte) (*Node, error) {
	if len(rootSecret) != RootSecretSize {
		return nil, model.NewError(model.KindInvalidSeed, model.StageSession,
			"root secret must be "+strconv.Itoa(RootSecretSize)+" bytes, got "+strconv.Itoa(len(rootSecret)))
	}
	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(rootSecret)
	sum := mac.Sum(nil)

	n := &Node{}
	copy(n.Key[:], sum[:32])
	copy(n.ChainCode[:], sum[32:])
	zero(sum)
	if n.Key == ([32]byte{}) {
		// Cryptographically unreachable, but an all-zero master key must
		// never leave this function.
		return nil, model.NewError(model.KindInvalidSeed, model.StageSession, "root secret produced a zero master key")
	}
	return n, nil
}

// Child derives the child node at index. The same HMAC mixing formula is
// applied at hardened and non-hardened indices; whether the hardened bit is
// set is decided by the caller (see Harden). Total over all uint32 inputs.
func (n *Node) Child(index uint32) (*Node, error) {
	if n.Depth >= MaxDepth {
		return nil, model.NewError(model.KindDerivationDepthExceeded, model.StageTreeDerive,
			"derivation depth "+strconv.Itoa(int(n.Depth)+1)+" exceeds maximum "+strconv.Itoa(MaxDepth))
	}

	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, n.Key[:]...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, n.ChainCode[:])
	mac.Write(data)
	sum := mac.Sum(nil)
	zero(data)

	child := &Node{
		Depth:             n.Depth + 1,
		ChildIndex:        index,
		ParentFingerprint: n.Fingerprint(),
	}
	copy(child.Key[:], sum[:32])
	copy(child.ChainCode[:], sum[32:])
	zero(sum)
	return child, nil
}

// Harden sets the hardened bit by adding HardenedOffset with native uint32
// wraparound: indices at or above 2^31 wrap deterministically instead of
// panicking, keeping derivation total over the full index range.
func Harden(index uint32) uint32 {
	return index + HardenedOffset
}

// DeriveEntityKey walks m/AppIndex'/KeychainIndex'/{entityIndex} from the
// master node. The two namespace levels are always hardened; the entity
// level is hardened when hardened is true. Intermediate nodes are zeroed
// before returning.
func DeriveEntityKey(master *Node, entityIndex uint32, hardened bool) (*Node, error) {
	l1, err := master.Child(Harden(AppIndex))
	if err != nil {
		return nil, err
	}
	defer l1.Zero()

	l2, err := l1.Child(Harden(KeychainIndex))
	if err != nil {
		return nil, err
	}
	defer l2.Zero()

	idx := entityIndex
	if hardened {
		idx = Harden(idx)
	}
	return l2.Child(idx)
}

// Path renders the informational derivation path for an entity index, e.g.
// m/83696968'/67797668'/42'. Hardening is shown with the conventional
// apostrophe; the printed entity index is the pre-hardened value.
func Path(entityIndex uint32, hardened bool) string {
	p := "m/" + strconv.FormatUint(uint64(AppIndex), 10) + "'/" +
		strconv.FormatUint(uint64(KeychainIndex), 10) + "'/" +
		strconv.FormatUint(uint64(entityIndex), 10)
	if hardened {
		p += "'"
	}
	return p
}

// Fingerprint identifies this node to its children: the first four bytes of
// RIPEMD160(SHA256(0x00 || public key)), with the public key derived from
// the node's key material.
func (n *Node) Fingerprint() [4]byte {
	priv := ed25519.NewKeyFromSeed(n.Key[:])
	pub := priv.Public().(ed25519.PublicKey)

	inner := sha256.New()
	inner.Write([]byte{0x00})
	inner.Write(pub)
	outer := ripemd160.New()
	outer.Write(inner.Sum(nil))

	var fp [4]byte
	copy(fp[:], outer.Sum(nil)[:4])
	return fp
}

// Zero wipes the node's key material and chain code in place.
func (n *Node) Zero() {
	n.Key = [32]byte{}
	n.ChainCode = [32]byte{}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

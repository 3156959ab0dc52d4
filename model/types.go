package model

import "strconv"

// HashFunction selects the entity digest function. The set is closed: the
// hash selector switches exhaustively over these values and anything else
// fails with KindUnsupportedHashFunction.
type HashFunction string

const (
	// HashHmacSHA512 keys the digest with the root secret. Default.
	HashHmacSHA512 HashFunction = "hmac_sha512"
	// HashBlake2b is unkeyed BLAKE2b-512, for ecosystems that exchange
	// entities without a shared secret.
	HashBlake2b HashFunction = "blake2b"
	// HashSHA256 is SHA-256 zero-padded to 64 bytes, for legacy interop.
	HashSHA256 HashFunction = "sha256"
)

// ParseHashFunction maps a wire name onto the closed hash-function set.
func ParseHashFunction(name string) (HashFunction, error) {
	switch HashFunction(name) {
	case HashHmacSHA512, HashBlake2b, HashSHA256:
		return HashFunction(name), nil
	default:
		return "", NewError(KindUnsupportedHashFunction, StageParse, "unsupported hash function "+strconv.Quote(name))
	}
}

// DerivationConfig governs steps 2-4 of the pipeline for one entity.
type DerivationConfig struct {
	HashFunction HashFunction `json:"hash_function"`
	Hardened     bool         `json:"hardened"`
}

// DefaultDerivationConfig is applied when an entity document carries no
// derivation_config block: HMAC-SHA-512, hardened.
func DefaultDerivationConfig() DerivationConfig {
	return DerivationConfig{HashFunction: HashHmacSHA512, Hardened: true}
}

// KeyPair is a derived Ed25519 keypair. PrivateKey holds the 32-byte seed
// form; the full ed25519.PrivateKey is reconstructable from it.
type KeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// Zero wipes the private key material in place.
func (kp *KeyPair) Zero() {
	for i := range kp.PrivateKey {
		kp.PrivateKey[i] = 0
	}
}

// DerivationRecord is the unit returned by the orchestrator for one entity
// and consumed by the output encoder.
type DerivationRecord struct {
	// EntityID is the CIDv1 (raw + sha2-256) of the canonical entity bytes.
	EntityID   string
	SchemaType string

	HashFunction HashFunction
	Hardened     bool

	// Index is the derivation index extracted from the digest, before any
	// hardening transform.
	Index uint32
	// Path is the informational derivation path, e.g. m/83696968'/67797668'/42'.
	Path string

	KeyPair KeyPair

	// Purpose and Metadata are passthrough only; they do not participate
	// in the hashed payload.
	Purpose  string
	Metadata map[string]any
}

// Result is one entity's outcome slot in a batch. Exactly one of Record and
// Err is set.
type Result struct {
	Record *DerivationRecord
	Err    error
}

// Package keys expands derived key material into Ed25519 keypairs and
// provides the small signing surface built on top of them.
//
// Expansion is deterministic: the same 32 bytes of key material always yield
// the same keypair, so every bit of entropy in a derived key traces back to
// the root secret.
package keys

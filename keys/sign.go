package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"strconv"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

// Sign signs message with the keypair's private key.
func Sign(kp model.KeyPair, message []byte) ([]byte, error) {
	priv, err := PrivateKey(kp)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(priv, message), nil
}

// Verify reports whether sig is a valid signature over message by pub.
func Verify(pub, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}

// SignerSummary encodes a public key as the compact signer string consumed
// by certificate tooling: "ed25519:" + base64(pubkey).
func SignerSummary(pub []byte) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", model.NewError(model.KindKeyExpansion, model.StageEncode,
			"ed25519 public key must be "+strconv.Itoa(ed25519.PublicKeySize)+" bytes, got "+strconv.Itoa(l))
	}
	return "ed25519:" + base64.StdEncoding.EncodeToString(pub), nil
}

package keys

import (
	"crypto/ed25519"
	"strconv"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

// FromSeed expands 32 bytes of key material into an Ed25519 keypair.
// The keypair keeps the seed form of the private key; malformed material
// fails with KindKeyExpansion.
func FromSeed(seed []byte) (model.KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return model.KeyPair{}, model.NewError(model.KindKeyExpansion, model.StageKeyExpand,
			"key material must be "+strconv.Itoa(ed25519.SeedSize)+" bytes, got "+strconv.Itoa(len(seed)))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return model.KeyPair{
		PublicKey:  append([]byte(nil), pub...),
		PrivateKey: append([]byte(nil), seed...),
	}, nil
}

// PrivateKey reconstructs the full ed25519.PrivateKey from a keypair's seed
// form.
func PrivateKey(kp model.KeyPair) (ed25519.PrivateKey, error) {
	if len(kp.PrivateKey) != ed25519.SeedSize {
		return nil, model.NewError(model.KindKeyExpansion, model.StageKeyExpand, "keypair holds no valid private seed")
	}
	return ed25519.NewKeyFromSeed(kp.PrivateKey), nil
}

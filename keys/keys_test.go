package keys

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

func testSeed(b byte) []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestFromSeedDeterministic(t *testing.T) {
	a, err := FromSeed(testSeed(0x01))
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromSeed(testSeed(0x01))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.PublicKey, b.PublicKey) || !bytes.Equal(a.PrivateKey, b.PrivateKey) {
		t.Fatal("key expansion is not deterministic")
	}

	c, err := FromSeed(testSeed(0x02))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.PublicKey, c.PublicKey) {
		t.Fatal("distinct seeds expanded to the same public key")
	}
}

func TestFromSeedMatchesStdlib(t *testing.T) {
	seed := testSeed(0x03)
	kp, err := FromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	want := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	if !bytes.Equal(kp.PublicKey, want) {
		t.Fatal("public key disagrees with ed25519.NewKeyFromSeed")
	}
	if !bytes.Equal(kp.PrivateKey, seed) {
		t.Fatal("private key is not kept in seed form")
	}
}

func TestFromSeedRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := FromSeed(make([]byte, n))
		if !model.IsKind(err, model.KindKeyExpansion) {
			t.Fatalf("len %d: kind = %q, want KeyExpansionError (%v)", n, model.KindOf(err), err)
		}
	}
}

func TestSignVerify(t *testing.T) {
	kp, err := FromSeed(testSeed(0x04))
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("attest: example.com A record")
	sig, err := Sign(kp, msg)
	if err != nil {
		t.Fatal(err)
	}
	if !Verify(kp.PublicKey, msg, sig) {
		t.Fatal("valid signature rejected")
	}
	if Verify(kp.PublicKey, []byte("tampered"), sig) {
		t.Fatal("signature verified over a different message")
	}
	sig[0] ^= 0xFF
	if Verify(kp.PublicKey, msg, sig) {
		t.Fatal("corrupt signature verified")
	}
}

func TestSignerSummary(t *testing.T) {
	kp, err := FromSeed(testSeed(0x05))
	if err != nil {
		t.Fatal(err)
	}
	s, err := SignerSummary(kp.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s, "ed25519:") {
		t.Fatalf("signer summary %q missing prefix", s)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, "ed25519:"))
	if err != nil {
		t.Fatalf("signer summary is not base64: %v", err)
	}
	if !bytes.Equal(decoded, kp.PublicKey) {
		t.Fatal("signer summary does not encode the public key")
	}

	if _, err := SignerSummary([]byte{1, 2, 3}); !model.IsKind(err, model.KindKeyExpansion) {
		t.Fatalf("short key: kind = %q, want KeyExpansionError", model.KindOf(err))
	}
}

func TestZeroWipesPrivateKey(t *testing.T) {
	kp, err := FromSeed(testSeed(0x06))
	if err != nil {
		t.Fatal(err)
	}
	kp.Zero()
	if !bytes.Equal(kp.PrivateKey, make([]byte, ed25519.SeedSize)) {
		t.Fatal("Zero left private material behind")
	}
}

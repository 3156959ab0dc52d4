// Package mnemonic is the seed-phrase collaborator: it reduces a BIP-39
// phrase to the 64-byte root secret the derivation engine consumes, and
// generates new phrases.
//
// The engine itself never sees a mnemonic; callers hand it the reduced
// secret and are responsible for zeroing it when the session ends.
package mnemonic

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var (
	ErrMnemonicRequired = errors.New("mnemonic is required")
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrInvalidWordCount = errors.New("word count must be 12, 15, 18, 21 or 24")
)

// entropy bits per BIP-39 word count.
var entropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// Generate returns a new random mnemonic with the given word count.
func Generate(words int) (string, error) {
	bits, ok := entropyBits[words]
	if !ok {
		return "", ErrInvalidWordCount
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// Validate reports whether phrase is a well-formed BIP-39 mnemonic.
func Validate(phrase string) bool {
	return bip39.IsMnemonicValid(strings.TrimSpace(phrase))
}

// RootSecret reduces a mnemonic phrase (plus optional passphrase) to the
// 64-byte root secret. The caller owns the returned bytes and must zero
// them when done.
func RootSecret(phrase, passphrase string) ([]byte, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, ErrMnemonicRequired
	}
	if !bip39.IsMnemonicValid(phrase) {
		return nil, ErrInvalidMnemonic
	}
	return bip39.NewSeed(phrase, passphrase), nil
}

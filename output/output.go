// Package output renders derivation records into their externally consumed
// encodings.
//
// Every encoding is a pure function of the record; no format includes
// private key material unless explicitly requested (seed, private-key, json).
package output

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/daogora-xyz/bip-keychain-core/keys"
	"github.com/daogora-xyz/bip-keychain-core/model"
)

// Format names one of the supported output encodings. The set is closed;
// ParseFormat rejects anything else.
type Format string

const (
	// FormatSeed is the raw 32-byte key material as 64 lowercase hex chars.
	FormatSeed Format = "seed"
	// FormatPublicKey is the Ed25519 public key as hex.
	FormatPublicKey Format = "public-key"
	// FormatPrivateKey is the Ed25519 private key (seed form) as hex.
	FormatPrivateKey Format = "private-key"
	// FormatSSH is a single authorized-keys line: ssh-ed25519 <base64> <purpose>.
	FormatSSH Format = "ssh"
	// FormatSigner is the compact signer summary for certificate tooling.
	FormatSigner Format = "signer"
	// FormatJSON is a structured record exposing all of the above.
	FormatJSON Format = "json"
)

// defaultComment fills the SSH comment slot when an entity has no purpose.
const defaultComment = "bip-keychain"

// Formats lists the supported format names, for usage text.
func Formats() []string {
	return []string{
		string(FormatSeed), string(FormatPublicKey), string(FormatPrivateKey),
		string(FormatSSH), string(FormatSigner), string(FormatJSON),
	}
}

// ParseFormat maps a format name onto the closed format set.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatSeed, FormatPublicKey, FormatPrivateKey, FormatSSH, FormatSigner, FormatJSON:
		return Format(name), nil
	default:
		return "", model.NewError(model.KindUnsupportedOutputFormat, model.StageEncode,
			"unsupported output format "+strconv.Quote(name))
	}
}

type jsonRecord struct {
	SeedHex           string         `json:"seed_hex"`
	Ed25519PublicKey  string         `json:"ed25519_public_key"`
	Ed25519PrivateKey string         `json:"ed25519_private_key"`
	SSHPublicKey      string         `json:"ssh_public_key"`
	SignerKey         string         `json:"signer_key"`
	SchemaType        string         `json:"schema_type"`
	HashFunction      string         `json:"hash_function"`
	Purpose           string         `json:"purpose,omitempty"`
	EntityID          string         `json:"entity_id"`
	DerivationPath    string         `json:"derivation_path"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// Encode renders rec in the requested format.
func Encode(rec *model.DerivationRecord, format Format) (string, error) {
	switch format {
	case FormatSeed, FormatPrivateKey:
		// The raw key material and the Ed25519 private key are the same
		// 32 bytes in seed form.
		return hex.EncodeToString(rec.KeyPair.PrivateKey), nil

	case FormatPublicKey:
		return hex.EncodeToString(rec.KeyPair.PublicKey), nil

	case FormatSSH:
		return sshPublicKeyLine(rec)

	case FormatSigner:
		return keys.SignerSummary(rec.KeyPair.PublicKey)

	case FormatJSON:
		sshLine, err := sshPublicKeyLine(rec)
		if err != nil {
			return "", err
		}
		signer, err := keys.SignerSummary(rec.KeyPair.PublicKey)
		if err != nil {
			return "", err
		}
		out, err := json.MarshalIndent(jsonRecord{
			SeedHex:           hex.EncodeToString(rec.KeyPair.PrivateKey),
			Ed25519PublicKey:  hex.EncodeToString(rec.KeyPair.PublicKey),
			Ed25519PrivateKey: hex.EncodeToString(rec.KeyPair.PrivateKey),
			SSHPublicKey:      sshLine,
			SignerKey:         signer,
			SchemaType:        rec.SchemaType,
			HashFunction:      string(rec.HashFunction),
			Purpose:           rec.Purpose,
			EntityID:          rec.EntityID,
			DerivationPath:    rec.Path,
			Metadata:          rec.Metadata,
		}, "", "  ")
		if err != nil {
			return "", model.WrapError(model.KindUnsupportedOutputFormat, model.StageEncode, "marshal json record", err)
		}
		return string(out), nil

	default:
		return "", model.NewError(model.KindUnsupportedOutputFormat, model.StageEncode,
			"unsupported output format "+strconv.Quote(string(format)))
	}
}

// sshPublicKeyLine renders the standard single-line authorized-keys form,
// with the entity purpose as the trailing comment.
func sshPublicKeyLine(rec *model.DerivationRecord) (string, error) {
	if len(rec.KeyPair.PublicKey) != ed25519.PublicKeySize {
		return "", model.NewError(model.KindKeyExpansion, model.StageEncode, "record holds no valid public key")
	}
	sshPub, err := ssh.NewPublicKey(ed25519.PublicKey(rec.KeyPair.PublicKey))
	if err != nil {
		return "", model.WrapError(model.KindKeyExpansion, model.StageEncode, "encode ssh public key", err)
	}
	line := strings.TrimRight(string(ssh.MarshalAuthorizedKey(sshPub)), "\n")
	comment := rec.Purpose
	if comment == "" {
		comment = defaultComment
	}
	return line + " " + comment, nil
}

// Package entity models the semantic entity documents consumed by the
// derivation engine and turns them into canonical bytes.
//
// A document arrives as JSON from an external authoring front-end. Only the
// entity payload participates in key derivation; purpose and metadata are
// human-facing passthrough, so editing them never rotates a key.
package entity

import (
	"encoding/json"
	"strconv"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

// SchemaKinds is the closed set of supported schema_type discriminators.
var SchemaKinds = map[string]bool{
	"schema_org":            true,
	"dns":                   true,
	"x509_dn":               true,
	"did":                   true,
	"cid":                   true,
	"gordian_envelope":      true,
	"verifiable_credential": true,
	"custom":                true,
}

// Document is a parsed entity document. Immutable once parsed.
type Document struct {
	SchemaType string
	// Entity is the schema-specific payload, kept as raw JSON. It is the
	// only part of the document that is canonicalized and hashed.
	Entity json.RawMessage
	Config model.DerivationConfig

	// Purpose and Metadata are NOT part of the hashed payload.
	Purpose  string
	Metadata map[string]any
}

type documentWire struct {
	SchemaType string          `json:"schema_type"`
	Entity     json.RawMessage `json:"entity"`
	Config     *configWire     `json:"derivation_config"`
	Purpose    string          `json:"purpose"`
	Metadata   map[string]any  `json:"metadata"`
}

type configWire struct {
	HashFunction string `json:"hash_function"`
	Hardened     *bool  `json:"hardened"`
}

// Parse reads one entity document. Unparsable input, an unknown schema_type,
// and a missing entity payload fail with KindMalformedEntity; an unknown
// hash-function name fails with KindUnsupportedHashFunction.
func Parse(data []byte) (*Document, error) {
	var wire documentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, model.WrapError(model.KindMalformedEntity, model.StageParse, "invalid entity JSON", err)
	}
	if wire.SchemaType == "" {
		return nil, model.NewError(model.KindMalformedEntity, model.StageParse, "missing schema_type")
	}
	if !SchemaKinds[wire.SchemaType] {
		return nil, model.NewError(model.KindMalformedEntity, model.StageParse, "unknown schema_type "+strconv.Quote(wire.SchemaType))
	}
	if len(wire.Entity) == 0 {
		return nil, model.NewError(model.KindMalformedEntity, model.StageParse, "missing entity payload")
	}

	cfg := model.DefaultDerivationConfig()
	if wire.Config != nil {
		if wire.Config.HashFunction != "" {
			fn, err := model.ParseHashFunction(wire.Config.HashFunction)
			if err != nil {
				return nil, err
			}
			cfg.HashFunction = fn
		}
		if wire.Config.Hardened != nil {
			cfg.Hardened = *wire.Config.Hardened
		}
	}

	return &Document{
		SchemaType: wire.SchemaType,
		Entity:     wire.Entity,
		Config:     cfg,
		Purpose:    wire.Purpose,
		Metadata:   wire.Metadata,
	}, nil
}

// Package keychain orchestrates per-entity key derivation over one shared
// root secret.
//
// A Session owns a private copy of the root secret for its lifetime and
// zeroes it on Close. Each entity's derivation is a pure function of
// (root secret, entity, config); the session holds no mutable state between
// entities, which is what makes batch derivation embarrassingly parallel.
package keychain

import (
	"sync"

	"github.com/daogora-xyz/bip-keychain-core/entity"
	"github.com/daogora-xyz/bip-keychain-core/hashing"
	"github.com/daogora-xyz/bip-keychain-core/hdkey"
	"github.com/daogora-xyz/bip-keychain-core/keys"
	"github.com/daogora-xyz/bip-keychain-core/model"
)

// Session is a derivation session over one root secret.
type Session struct {
	mu     sync.Mutex
	closed bool

	secret []byte
	master *hdkey.Node
}

// NewSession copies rootSecret and seeds the master key. A secret that
// cannot seed a master key fails with KindInvalidSeed before any entity work
// happens; in that case nothing sensitive is retained.
func NewSession(rootSecret []byte) (*Session, error) {
	secret := append([]byte(nil), rootSecret...)
	master, err := hdkey.NewMaster(secret)
	if err != nil {
		zeroBytes(secret)
		return nil, err
	}
	return &Session{secret: secret, master: master}, nil
}

// Close zeroes the root secret and master key material. Safe to call more
// than once; a closed session fails all further derivations.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	zeroBytes(s.secret)
	s.master.Zero()
}

// Derive runs the full pipeline for one entity: canonicalize, digest,
// extract index, walk the key tree, expand the keypair.
func (s *Session) Derive(doc *entity.Document) (*model.DerivationRecord, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, model.NewError(model.KindInvalidSeed, model.StageSession, "session is closed")
	}
	s.mu.Unlock()

	if doc == nil {
		return nil, model.NewError(model.KindMalformedEntity, model.StageParse, "nil entity document")
	}

	canonical, err := doc.CanonicalBytes()
	if err != nil {
		return nil, err
	}
	entityID := entity.IDForCanonical(canonical)

	digest, err := hashing.Digest(doc.Config.HashFunction, canonical, s.secret)
	if err != nil {
		return nil, model.WithEntity(err, entityID)
	}
	index := hashing.Index(digest)

	leaf, err := hdkey.DeriveEntityKey(s.master, index, doc.Config.Hardened)
	if err != nil {
		return nil, model.WithEntity(err, entityID)
	}
	defer leaf.Zero()

	kp, err := keys.FromSeed(leaf.Key[:])
	if err != nil {
		return nil, model.WithEntity(err, entityID)
	}

	return &model.DerivationRecord{
		EntityID:     entityID,
		SchemaType:   doc.SchemaType,
		HashFunction: doc.Config.HashFunction,
		Hardened:     doc.Config.Hardened,
		Index:        index,
		Path:         hdkey.Path(index, doc.Config.Hardened),
		KeyPair:      kp,
		Purpose:      doc.Purpose,
		Metadata:     doc.Metadata,
	}, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

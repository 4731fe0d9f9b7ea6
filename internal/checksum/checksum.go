// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

// Package checksum provides the content digests used to detect payload
// corruption at rest and divergence during sync.
//
// Digest and Verify operate on plaintext payload bytes and are pure
// functions: the same payload always produces the same hex digest. The keyed
// Signer is a separate, HMAC-based primitive used only for whole-batch
// transport signatures.
package checksum

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"sync"
)

// Digest computes the SHA-256 digest of payload and returns it hex-encoded.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether checksum matches a fresh digest of payload.
// The comparison is constant-time.
func Verify(payload []byte, checksum string) bool {
	fresh := Digest(payload)
	return subtle.ConstantTimeCompare([]byte(fresh), []byte(checksum)) == 1
}

// Signer computes keyed HMAC-SHA256 signatures over serialized batches.
// It keeps a pool of reusable hash instances to avoid repeated allocations
// on the sync hot path.
type Signer struct {
	key  []byte
	pool sync.Pool
}

// NewSigner constructs a Signer for the given HMAC key. An empty key yields
// a Signer whose Sign returns the empty string: batch signing is optional and disabled
// when no key is configured.
func NewSigner(key string) *Signer {
	s := &Signer{key: []byte(key)}
	s.pool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, s.key)
		},
	}
	return s
}

// Sign computes the hex-encoded HMAC-SHA256 signature of data.
func (s *Signer) Sign(data []byte) string {
	if len(s.key) == 0 {
		return ""
	}

	h := s.pool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	s.pool.Put(h)

	return hex.EncodeToString(sum)
}

// VerifySignature reports whether signature matches Sign(data).
func (s *Signer) VerifySignature(data []byte, signature string) bool {
	expected := s.Sign(data)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

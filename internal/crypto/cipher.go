// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// payloadCipher is the private implementation of [Cipher].
type payloadCipher struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewPayloadCipher constructs a [Cipher] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewPayloadCipher() Cipher {
	return &payloadCipher{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// GenerateSalt implements [Cipher]. It reads 16 random bytes from the OS
// CSPRNG. Returns an error if the random read fails.
func (p *payloadCipher) GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [Cipher]. It derives a 256-bit key from passphrase
// and salt using Argon2id with the parameters stored in the receiver.
func (p *payloadCipher) DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(passphrase),
		salt,
		p.argonTime,
		p.argonMemory,
		p.argonThreads,
		p.argonKeyLen,
	)
}

// Encrypt implements [Cipher]. A random 12-byte nonce is prepended to the
// ciphertext so the decryption side can locate it: blob = nonce ‖ ciphertext.
func (p *payloadCipher) Encrypt(plain []byte, key []byte) (string, error) {
	if len(key) != 32 {
		return "", fmt.Errorf("invalid key length: %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := gcm.Seal(nil, nonce, plain, nil)
	blob := append(nonce, ct...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Cipher]. It splits the nonce off the decoded blob and
// opens the remainder. An authentication-tag mismatch (wrong key or
// tampered ciphertext) surfaces as an error, never as garbage plaintext.
func (p *payloadCipher) Decrypt(encodedB64 string, key []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: %d", len(key))
	}

	blob, err := base64.StdEncoding.DecodeString(encodedB64)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ct := blob[:nonceSize], blob[nonceSize:]
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, err
	}
	return plain, nil
}

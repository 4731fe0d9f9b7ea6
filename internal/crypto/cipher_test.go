package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	c := NewPayloadCipher()

	a, err := c.GenerateSalt()
	require.NoError(t, err)
	b, err := c.GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.Len(t, b, 16)
	assert.NotEqual(t, a, b, "two salts should not collide")
}

func TestDeriveKey_DeterministicPerInput(t *testing.T) {
	c := NewPayloadCipher()
	salt := []byte("0123456789abcdef")

	k1 := c.DeriveKey("correct horse", salt)
	k2 := c.DeriveKey("correct horse", salt)
	k3 := c.DeriveKey("wrong horse", salt)

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := NewPayloadCipher()
	key := c.DeriveKey("passphrase", []byte("0123456789abcdef"))
	plain := []byte(`{"gross_income": 81250.50, "year": "2025"}`)

	blob, err := c.Encrypt(plain, key)
	require.NoError(t, err)
	require.NotEmpty(t, blob)
	assert.NotContains(t, blob, "gross_income", "ciphertext must not leak plaintext")

	got, err := c.Decrypt(blob, key)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestEncrypt_NonDeterministicNonce(t *testing.T) {
	c := NewPayloadCipher()
	key := c.DeriveKey("passphrase", []byte("0123456789abcdef"))

	first, err := c.Encrypt([]byte("same payload"), key)
	require.NoError(t, err)
	second, err := c.Encrypt([]byte("same payload"), key)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh nonce expected per call")
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	c := NewPayloadCipher()
	key := c.DeriveKey("passphrase", []byte("0123456789abcdef"))
	other := c.DeriveKey("different", []byte("0123456789abcdef"))

	blob, err := c.Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	_, err = c.Decrypt(blob, other)
	assert.Error(t, err)
}

func TestDecrypt_RejectsMalformedInput(t *testing.T) {
	c := NewPayloadCipher()
	key := c.DeriveKey("passphrase", []byte("0123456789abcdef"))

	_, err := c.Decrypt("not base64!!!", key)
	assert.Error(t, err)

	_, err = c.Decrypt("c2hvcnQ=", key) // decodes to fewer bytes than a nonce
	assert.Error(t, err)
}

func TestCipher_RejectsBadKeyLength(t *testing.T) {
	c := NewPayloadCipher()

	_, err := c.Encrypt([]byte("x"), []byte("short-key"))
	assert.Error(t, err)

	_, err = c.Decrypt("AAAA", []byte("short-key"))
	assert.Error(t, err)
}

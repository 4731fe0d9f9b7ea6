package crypto

// Cipher is the PII protection collaborator used by the transport layer.
// Record payloads are encrypted before leaving the device so that network
// capture or server logs never expose plaintext tax data; the sync engine
// itself never interprets what it encrypts.
//
// Key material is derived once per session from the user's passphrase:
//
//	salt = GenerateSalt()                 (stored alongside the account)
//	key  = DeriveKey(passphrase, salt)    (exists only in client memory)
type Cipher interface {
	// GenerateSalt returns a random 16-byte key-derivation salt. The salt
	// is not a secret and may be stored openly.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a 256-bit encryption key from the user passphrase
	// and salt. The key never leaves the client process.
	DeriveKey(passphrase string, salt []byte) []byte

	// Encrypt seals plaintext with the key using AES-256-GCM and returns a
	// base64-encoded blob (nonce ‖ ciphertext) safe to transmit or store.
	Encrypt(plain []byte, key []byte) (string, error)

	// Decrypt opens a blob produced by Encrypt. Returns an error if the key
	// is wrong or the ciphertext was tampered with.
	Decrypt(encodedB64 string, key []byte) ([]byte, error)
}

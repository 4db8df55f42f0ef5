package encryption

import "io"

// Encryptor encrypts file content and unlocks the key needed to decrypt it.
// Encryption uses the public key only. Decryption needs a passphrase to
// unlock the private key, producing a DecryptionContext.
type Encryptor interface {
	// Setup performs one-time key generation. Called by `fpath keys init`.
	// It generates a key pair, stores the public key in plaintext and
	// encrypts the private key with the passphrase.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory. The key is
// never written to disk.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}

package encryption

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"fpath-go/internal/config"
	"fpath-go/internal/fpath"
)

// AgeEncryptor implements Encryptor using filippo.io/age with X25519 keys.
// The public key is stored in plaintext; the private key is encrypted with
// the user's passphrase using age's scrypt-based passphrase encryption.
// Ciphertext is ASCII-armored so encrypted files stay printable.
type AgeEncryptor struct {
	keys           *fpath.Manager
	publicKeyPath  fpath.Path
	privateKeyPath fpath.Path
}

var _ Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor whose key files are read and
// written through fsys. Key directories are created 0700 and the private
// key file 0600.
func NewAgeEncryptor(cfg config.EncryptionConfig, fsys fpath.Filesystem) *AgeEncryptor {
	keys := fpath.NewManager(fsys, nil, nil, fpath.WithDirMode(0700), fpath.WithFileMode(0600))
	return &AgeEncryptor{
		keys:           keys,
		publicKeyPath:  fpath.NewFromStrings(cfg.PublicKeyPath),
		privateKeyPath: fpath.NewFromStrings(cfg.PrivateKeyPath),
	}
}

// Setup generates a new X25519 key pair, stores the public key in plaintext,
// and encrypts the private key with the passphrase.
func (e *AgeEncryptor) Setup(passphrase string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if _, err := e.keys.Write(e.publicKeyPath, identity.Recipient().String()+"\n", fpath.WriteOptions{}); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	if err := encryptTo(&buf, strings.NewReader(identity.String()+"\n"), recipient); err != nil {
		return fmt.Errorf("encrypting private key: %w", err)
	}

	if _, err := e.keys.Write(e.privateKeyPath, buf.Bytes(), fpath.WriteOptions{}); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	return nil
}

// Encrypt reads plaintext from r and writes armored ciphertext to w using
// the stored public key.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.loadRecipient()
	if err != nil {
		return fmt.Errorf("loading public key: %w", err)
	}
	return encryptTo(w, r, recipient)
}

// Unlock decrypts the private key using the passphrase and returns an
// AgeDecryptionContext holding the unlocked identity.
func (e *AgeEncryptor) Unlock(passphrase string) (DecryptionContext, error) {
	privData, err := e.readKey(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key file: %w", err)
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	var keyData bytes.Buffer
	if err := decryptTo(&keyData, bytes.NewReader(privData), identity); err != nil {
		return nil, fmt.Errorf("decrypting private key: %w", err)
	}

	identities, err := age.ParseIdentities(&keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in private key")
	}

	return &AgeDecryptionContext{identity: identities[0]}, nil
}

// IsConfigured returns true if both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []fpath.Path{e.publicKeyPath, e.privateKeyPath} {
		ok, err := e.keys.IsFile(p)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func (e *AgeEncryptor) loadRecipient() (age.Recipient, error) {
	pubData, err := e.readKey(e.publicKeyPath)
	if err != nil {
		return nil, err
	}

	recipients, err := age.ParseRecipients(bytes.NewReader(pubData))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in public key file")
	}
	return recipients[0], nil
}

// readKey turns the soft miss of ReadBytes into an error: a key file that
// should exist does not.
func (e *AgeEncryptor) readKey(p fpath.Path) ([]byte, error) {
	data, err := e.keys.ReadBytes(p)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("key file not found: %s (run `fpath keys init`)", p)
	}
	return data, nil
}

// AgeDecryptionContext holds an unlocked age identity for decrypting data.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ DecryptionContext = (*AgeDecryptionContext)(nil)

// Decrypt reads armored age ciphertext from r and writes plaintext to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	return decryptTo(w, r, c.identity)
}

func encryptTo(w io.Writer, r io.Reader, recipient age.Recipient) error {
	armorWriter := armor.NewWriter(w)
	encWriter, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

func decryptTo(w io.Writer, r io.Reader, identity age.Identity) error {
	decReader, err := age.Decrypt(armor.NewReader(r), identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}
	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}

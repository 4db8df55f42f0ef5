package encryption

import (
	"bytes"
	"fmt"
	"sync"

	"fpath-go/internal/codec"
)

// CodecName is the parser name the encryption codec is registered under.
const CodecName = "age"

// PassphraseFunc supplies the passphrase that unlocks the private key.
type PassphraseFunc func() (string, error)

// NewCodec returns a codec that encrypts on write and decrypts on read.
// Serialize accepts a string or []byte; Deserialize returns []byte.
// The passphrase is requested on the first decrypt only, and a successful
// unlock is reused for the lifetime of the codec.
func NewCodec(enc Encryptor, passphrase PassphraseFunc) codec.Codec {
	u := &unlocker{enc: enc, passphrase: passphrase}
	return codec.Codec{
		Serialize: func(v any) ([]byte, error) {
			var plain []byte
			switch data := v.(type) {
			case string:
				plain = []byte(data)
			case []byte:
				plain = data
			default:
				return nil, fmt.Errorf("age codec: cannot encrypt %T, want string or []byte", v)
			}
			var buf bytes.Buffer
			if err := enc.Encrypt(bytes.NewReader(plain), &buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		Deserialize: func(data []byte) (any, error) {
			ctx, err := u.unlock()
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			if err := ctx.Decrypt(bytes.NewReader(data), &buf); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

type unlocker struct {
	enc        Encryptor
	passphrase PassphraseFunc

	mu  sync.Mutex
	ctx DecryptionContext
}

func (u *unlocker) unlock() (DecryptionContext, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.ctx != nil {
		return u.ctx, nil
	}
	if u.passphrase == nil {
		return nil, fmt.Errorf("age codec: no passphrase source configured")
	}
	pass, err := u.passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	ctx, err := u.enc.Unlock(pass)
	if err != nil {
		return nil, err
	}
	u.ctx = ctx
	return ctx, nil
}

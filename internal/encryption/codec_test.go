package encryption

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"fpath-go/internal/codec"
	"fpath-go/internal/config"
	"fpath-go/internal/fpath"
	"fpath-go/internal/testutil"
)

func TestCodec_RoundTrip(t *testing.T) {
	calls := 0
	c := NewCodec(NewTestEncryptor(), func() (string, error) {
		calls++
		return "pass", nil
	})

	for _, in := range []any{"text", []byte("bytes")} {
		out, err := c.Serialize(in)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(out, testHeader))

		plain, err := c.Deserialize(out)
		require.NoError(t, err)
		require.IsType(t, []byte{}, plain)
	}
	require.Equal(t, 1, calls, "the passphrase is requested once")
}

func TestCodec_RejectsStructuredValues(t *testing.T) {
	c := NewCodec(NewTestEncryptor(), nil)
	_, err := c.Serialize(map[string]any{"a": 1})
	require.Error(t, err)
}

func TestCodec_PassphraseErrors(t *testing.T) {
	data, err := NewCodec(NewTestEncryptor(), nil).Serialize("x")
	require.NoError(t, err)

	t.Run("no source", func(t *testing.T) {
		_, err := NewCodec(NewTestEncryptor(), nil).Deserialize(data)
		require.ErrorContains(t, err, "no passphrase source")
	})

	t.Run("source fails then succeeds", func(t *testing.T) {
		denied := errors.New("denied")
		attempts := 0
		c := NewCodec(NewTestEncryptor(), func() (string, error) {
			attempts++
			if attempts == 1 {
				return "", denied
			}
			return "pass", nil
		})

		_, err := c.Deserialize(data)
		require.ErrorIs(t, err, denied)

		plain, err := c.Deserialize(data)
		require.NoError(t, err)
		require.Equal(t, []byte("x"), plain)
	})
}

func TestCodec_WithManager(t *testing.T) {
	reg := codec.NewRegistry()
	require.NoError(t, reg.Configure(map[string]codec.Codec{
		CodecName: NewCodec(NewTestEncryptor(), func() (string, error) { return "pass", nil }),
	}))
	mock := testutil.NewMockFilesystem()
	m := fpath.NewManager(mock, reg, nil)

	target := fpath.NewFromStrings("/vault/secret.txt")
	_, err := m.Write(target, "classified", fpath.WriteOptions{Parser: CodecName})
	require.NoError(t, err)
	require.NotEqual(t, "classified", string(mock.Get("/vault/secret.txt").Content))

	got, err := m.Read(target, fpath.ReadOptions{Parser: CodecName})
	require.NoError(t, err)
	require.Equal(t, []byte("classified"), got)
}

func TestNewEncryptorFromConfig(t *testing.T) {
	mock := testutil.NewMockFilesystem()

	tests := []struct {
		typ     string
		want    any
		wantErr bool
	}{
		{typ: "", want: &AgeEncryptor{}},
		{typ: "age", want: &AgeEncryptor{}},
		{typ: "test", want: &TestEncryptor{}},
		{typ: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			cfg := config.EncryptionConfig{Type: tt.typ, PublicKeyPath: "/k/pub", PrivateKeyPath: "/k/key"}
			enc, err := NewEncryptorFromConfig(cfg, mock)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.IsType(t, tt.want, enc)
		})
	}
}

func TestCodec_TestEncryptorThroughManager(t *testing.T) {
	reg := codec.NewRegistry()
	require.NoError(t, reg.Configure(map[string]codec.Codec{
		CodecName: NewCodec(NewTestEncryptor(), func() (string, error) { return "", nil }),
	}))
	mock := testutil.NewMockFilesystem()
	m := fpath.NewManager(mock, reg, nil)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary", input: []byte{0x00, 0xff, 0x01, 0xfe}},
		{name: "large", input: bytes.Repeat([]byte("abcdef"), 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := fpath.NewFromStrings("/sealed", tt.name, "1.age")
			second := fpath.NewFromStrings("/sealed", tt.name, "2.age")
			for _, target := range []fpath.Path{first, second} {
				_, err := m.Write(target, tt.input, fpath.WriteOptions{Parser: CodecName})
				require.NoError(t, err)
			}

			stored := mock.Get(first.String()).Content
			require.Equal(t, append(append([]byte{}, testHeader...), tt.input...), stored)
			require.Equal(t, stored, mock.Get(second.String()).Content, "output is deterministic")

			got, err := m.Read(first, fpath.ReadOptions{Parser: CodecName})
			require.NoError(t, err)
			require.True(t, bytes.Equal(tt.input, got.([]byte)))
		})
	}
}

func TestCodec_RejectsForeignCiphertext(t *testing.T) {
	c := NewCodec(NewTestEncryptor(), func() (string, error) { return "", nil })

	tests := []struct {
		name    string
		input   []byte
		wantErr string
	}{
		{name: "empty", input: nil, wantErr: "reading test header"},
		{name: "truncated header", input: []byte("FP"), wantErr: "reading test header"},
		{name: "wrong header", input: []byte("NOT_VALID_HEADER_data"), wantErr: "invalid test encryption header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Deserialize(tt.input)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}

	t.Run("plaintext file read as encrypted", func(t *testing.T) {
		reg := codec.NewRegistry()
		require.NoError(t, reg.Configure(map[string]codec.Codec{CodecName: c}))
		mock := testutil.NewMockFilesystem()
		mock.AddFile("/notes/plain.txt", []byte("just text"))
		m := fpath.NewManager(mock, reg, nil)

		_, err := m.Read(fpath.NewFromStrings("/notes/plain.txt"), fpath.ReadOptions{Parser: CodecName})
		require.ErrorContains(t, err, "invalid test encryption header")
	})
}

func TestTestEncryptor_Setup(t *testing.T) {
	e := NewTestEncryptor()
	require.True(t, e.IsConfigured())
	require.NoError(t, e.Setup("ignored"))
	require.True(t, e.setupCalled)
}

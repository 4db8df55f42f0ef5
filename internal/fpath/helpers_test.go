package fpath_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fpath-go/internal/codec"
	"fpath-go/internal/fpath"
	"fpath-go/internal/testutil"
)

// newMockManager returns a Manager over an empty in-memory filesystem with
// the built-in codecs registered.
func newMockManager(t *testing.T) (*fpath.Manager, *testutil.MockFilesystem) {
	t.Helper()
	mock := testutil.NewMockFilesystem()
	reg := codec.NewRegistry()
	require.NoError(t, reg.Configure(codec.Builtin()))
	return fpath.NewManager(mock, reg, nil), mock
}

func p(s string) fpath.Path { return fpath.NewFromStrings(s) }

func strs(paths []fpath.Path) []string {
	out := make([]string, len(paths))
	for i, x := range paths {
		out[i] = x.String()
	}
	return out
}

package fpath_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"fpath-go/internal/fpath"
)

func TestManager_Stat(t *testing.T) {
	m, mock := newMockManager(t)
	mock.AddFile("/data/a.txt", []byte("hello"))
	mock.AddDirectory("/data/sub")

	t.Run("file", func(t *testing.T) {
		st, err := m.Stat(p("/data/a.txt"))
		require.NoError(t, err)
		require.NotNil(t, st)
		require.Equal(t, fpath.KindFile, st.Kind)
		require.True(t, st.IsFile())
		require.False(t, st.IsDir())
		require.EqualValues(t, 5, st.Size)
		require.Equal(t, "file", st.Kind.String())
	})

	t.Run("directory", func(t *testing.T) {
		st, err := m.Stat(p("/data/sub"))
		require.NoError(t, err)
		require.True(t, st.IsDir())
		require.Equal(t, "directory", st.Kind.String())
	})

	t.Run("missing is nil without error", func(t *testing.T) {
		st, err := m.Stat(p("/data/missing"))
		require.NoError(t, err)
		require.Nil(t, st)
	})

	t.Run("below a file is missing", func(t *testing.T) {
		st, err := m.Stat(p("/data/a.txt/child"))
		require.NoError(t, err)
		require.Nil(t, st)
	})

	t.Run("other failures are stat errors", func(t *testing.T) {
		mock.FailStat("/data/locked", fs.ErrPermission)
		_, err := m.Stat(p("/data/locked"))
		require.ErrorIs(t, err, fpath.ErrStat)
		require.ErrorIs(t, err, fs.ErrPermission)
	})
}

func TestManager_Predicates(t *testing.T) {
	m, mock := newMockManager(t)
	mock.AddFile("/f", nil)
	mock.AddDirectory("/d")

	tests := []struct {
		path                  string
		isFile, isDir, exists bool
	}{
		{path: "/f", isFile: true, exists: true},
		{path: "/d", isDir: true, exists: true},
		{path: "/nope"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			isFile, err := m.IsFile(p(tt.path))
			require.NoError(t, err)
			require.Equal(t, tt.isFile, isFile)

			isDir, err := m.IsDir(p(tt.path))
			require.NoError(t, err)
			require.Equal(t, tt.isDir, isDir)

			exists, err := m.Exists(p(tt.path))
			require.NoError(t, err)
			require.Equal(t, tt.exists, exists)
		})
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "other", fpath.KindOther.String())
	require.Equal(t, "unknown", fpath.Kind(0).String())
}

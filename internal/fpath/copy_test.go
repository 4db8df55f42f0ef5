package fpath_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fpath-go/internal/fpath"
)

func TestManager_Copy(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/src/a.json", []byte(`{"raw": true}`))

		got, err := m.Copy(p("/src/a.json"), p("/dst/sub/a.json"))
		require.NoError(t, err)
		require.Equal(t, "/dst/sub/a.json", got.String())
		require.Equal(t, `{"raw": true}`, string(mock.Get("/dst/sub/a.json").Content))
	})

	t.Run("file overwrites file", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/a", []byte("new"))
		mock.AddFile("/b", []byte("old"))

		_, err := m.Copy(p("/a"), p("/b"))
		require.NoError(t, err)
		require.Equal(t, "new", string(mock.Get("/b").Content))
	})

	t.Run("directory tree", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/src/a.txt", []byte("a"))
		mock.AddFile("/src/b/c.txt", []byte("c"))
		mock.AddDirectory("/src/empty")

		_, err := m.Copy(p("/src"), p("/dst"))
		require.NoError(t, err)
		require.Equal(t, "a", string(mock.Get("/dst/a.txt").Content))
		require.Equal(t, "c", string(mock.Get("/dst/b/c.txt").Content))
		require.True(t, mock.Get("/dst/empty").IsDirectory)
		require.Equal(t, "a", string(mock.Get("/src/a.txt").Content), "source is untouched")
	})

	t.Run("directory merges into existing directory", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/src/a.txt", []byte("a"))
		mock.AddFile("/dst/keep.txt", []byte("k"))

		_, err := m.Copy(p("/src"), p("/dst"))
		require.NoError(t, err)
		require.NotNil(t, mock.Get("/dst/a.txt"))
		require.NotNil(t, mock.Get("/dst/keep.txt"))
	})

	t.Run("missing source", func(t *testing.T) {
		m, _ := newMockManager(t)
		_, err := m.Copy(p("/nope"), p("/dst"))
		require.ErrorIs(t, err, fpath.ErrNotFound)
	})

	t.Run("same file", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/a", []byte("x"))

		_, err := m.Copy(p("/a"), p("/a"))
		require.ErrorIs(t, err, fpath.ErrSameFile)
		require.Equal(t, fpath.CodeSameFile, fpath.Code(err))
	})

	t.Run("file onto directory", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/a", []byte("x"))
		mock.AddDirectory("/d")

		_, err := m.Copy(p("/a"), p("/d"))
		require.ErrorIs(t, err, fpath.ErrExpectFile)
	})

	t.Run("directory onto file", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddDirectory("/d")
		mock.AddFile("/a", []byte("x"))

		_, err := m.Copy(p("/d"), p("/a"))
		require.ErrorIs(t, err, fpath.ErrExpectDirectory)
	})

	t.Run("directory into itself", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/d/a.txt", nil)

		_, err := m.Copy(p("/d"), p("/d/inner"))
		require.ErrorIs(t, err, fpath.ErrInvalidArgument)
		require.Nil(t, mock.Get("/d/inner"))
	})

	t.Run("sibling with shared prefix is not inside", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.AddFile("/d/a.txt", []byte("a"))

		_, err := m.Copy(p("/d"), p("/d2"))
		require.NoError(t, err)
		require.NotNil(t, mock.Get("/d2/a.txt"))
	})
}

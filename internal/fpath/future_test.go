package fpath_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fpath-go/internal/codec"
	"fpath-go/internal/fpath"
)

func TestManager_Async(t *testing.T) {
	ctx := context.Background()
	m, mock := newMockManager(t)

	dir, err := m.EnsureDirAsync(p("/async/a")).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "/async/a", dir.String())

	written, err := m.WriteAsync(p("/async/a/v.json"), map[string]any{"k": "v"}, fpath.WriteOptions{Parser: codec.JSON}).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "/async/a/v.json", written.String())

	v, err := m.ReadAsync(written, fpath.ReadOptions{Parser: codec.JSON}).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"k": "v"}, v)

	st, err := m.StatAsync(written).Wait(ctx)
	require.NoError(t, err)
	require.True(t, st.IsFile())

	children, err := m.ListAsync(p("/async/a")).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"/async/a/v.json"}, strs(children))

	copied, err := m.CopyAsync(written, p("/async/b.json")).Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "/async/b.json", copied.String())
	require.NotNil(t, mock.Get("/async/b.json"))
}

func TestManager_Async_errorsMatchSync(t *testing.T) {
	ctx := context.Background()
	m, mock := newMockManager(t)
	mock.AddDirectory("/d")

	_, syncErr := m.Read(p("/d"), fpath.ReadOptions{})
	_, asyncErr := m.ReadAsync(p("/d"), fpath.ReadOptions{}).Wait(ctx)
	require.ErrorIs(t, asyncErr, fpath.ErrExpectFile)
	require.Equal(t, syncErr.Error(), asyncErr.Error())

	_, asyncErr = m.WriteAsync(p("/d"), "x", fpath.WriteOptions{}).Wait(ctx)
	require.ErrorIs(t, asyncErr, fpath.ErrExpectFile)

	v, err := m.ReadAsync(p("/missing"), fpath.ReadOptions{}).Wait(ctx)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFuture_WaitCancelled(t *testing.T) {
	m, mock := newMockManager(t)
	release := make(chan struct{})
	mock.BeforeMkdir(func(string) { <-release })

	f := m.EnsureDirAsync(p("/slow"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-f.Done()
	got, err := f.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/slow", got.String())
	require.True(t, mock.Get("/slow").IsDirectory, "the operation completes after the wait is abandoned")
}

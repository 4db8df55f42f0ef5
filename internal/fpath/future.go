package fpath

import "context"

// Future is the pending result of an asynchronous operation.
// The operation always runs to completion; cancelling the context passed to
// Wait only stops waiting for it.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the operation finishes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// StatAsync runs Stat in the background.
func (m *Manager) StatAsync(p Path) *Future[*StatResult] {
	return goFuture(func() (*StatResult, error) { return m.Stat(p) })
}

// EnsureDirAsync runs EnsureDir in the background.
func (m *Manager) EnsureDirAsync(p Path) *Future[Path] {
	return goFuture(func() (Path, error) { return m.EnsureDir(p) })
}

// ListAsync runs List in the background.
func (m *Manager) ListAsync(p Path) *Future[[]Path] {
	return goFuture(func() ([]Path, error) { return m.List(p) })
}

// ReadAsync runs Read in the background.
func (m *Manager) ReadAsync(p Path, opts ReadOptions) *Future[any] {
	return goFuture(func() (any, error) { return m.Read(p, opts) })
}

// WriteAsync runs Write in the background.
func (m *Manager) WriteAsync(p Path, data any, opts WriteOptions) *Future[Path] {
	return goFuture(func() (Path, error) { return m.Write(p, data, opts) })
}

// CopyAsync runs Copy in the background.
func (m *Manager) CopyAsync(src, dst Path) *Future[Path] {
	return goFuture(func() (Path, error) { return m.Copy(src, dst) })
}

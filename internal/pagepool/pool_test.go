package pagepool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type memBackend struct {
	pages map[uint32][]byte
}

func newMemBackend() *memBackend { return &memBackend{pages: make(map[uint32][]byte)} }

func (b *memBackend) ReadPage(index uint32, buf []byte) error {
	if p, ok := b.pages[index]; ok {
		copy(buf, p)
	}
	return nil
}

func (b *memBackend) WritePage(index uint32, buf []byte) error {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	b.pages[index] = cp
	return nil
}

func TestPoolPutGetRoundTrip(t *testing.T) {
	pool := NewPool(2, 64)
	backend := newMemBackend()
	pool.RegisterFile("t1", backend)

	key := PageKey{File: "t1", Index: 0}
	page, err := pool.Put(key)
	require.NoError(t, err)
	page.Buf[0] = 0xAB

	got, ok := pool.Get(key)
	require.True(t, ok)
	require.Equal(t, byte(0xAB), got.Buf[0])
}

func TestPoolEvictsLRUUnpinned(t *testing.T) {
	pool := NewPool(1, 16)
	backend := newMemBackend()
	pool.RegisterFile("t1", backend)

	k0 := PageKey{File: "t1", Index: 0}
	k1 := PageKey{File: "t1", Index: 1}

	_, err := pool.Put(k0)
	require.NoError(t, err)

	// k0 not pinned, so requesting k1 should evict it.
	_, err = pool.Put(k1)
	require.NoError(t, err)

	_, ok := pool.Get(k0)
	require.False(t, ok)
	_, ok = pool.Get(k1)
	require.True(t, ok)
}

func TestPoolExhaustedWhenAllPinned(t *testing.T) {
	pool := NewPool(1, 16)
	backend := newMemBackend()
	pool.RegisterFile("t1", backend)

	k0 := PageKey{File: "t1", Index: 0}
	_, err := pool.Put(k0)
	require.NoError(t, err)
	pool.Pin(k0)

	_, err = pool.Put(PageKey{File: "t1", Index: 1})
	require.ErrorIs(t, err, ErrPoolExhausted)
}

func TestPoolFlushesDirtyOnEviction(t *testing.T) {
	pool := NewPool(1, 16)
	backend := newMemBackend()
	pool.RegisterFile("t1", backend)

	k0 := PageKey{File: "t1", Index: 0}
	page, err := pool.Put(k0)
	require.NoError(t, err)
	page.Buf[0] = 0x42
	pool.MarkDirty(k0)

	_, err = pool.Put(PageKey{File: "t1", Index: 1})
	require.NoError(t, err)

	require.Equal(t, byte(0x42), backend.pages[0][0])
}

func TestPoolDropFileRejectsPinned(t *testing.T) {
	pool := NewPool(4, 16)
	backend := newMemBackend()
	pool.RegisterFile("t1", backend)

	k0 := PageKey{File: "t1", Index: 0}
	_, err := pool.Put(k0)
	require.NoError(t, err)
	pool.Pin(k0)

	require.ErrorIs(t, pool.DropFile("t1"), ErrFilePinned)

	pool.Unpin(k0, false)
	require.NoError(t, pool.DropFile("t1"))
}

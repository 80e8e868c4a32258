// Package pagepool implements the bounded, pin-aware page cache shared by
// every open table file. It is a single LRU keyed by (file, page index):
// cache hits promote to most-recently-used, misses steal the frame of the
// least-recently-used unpinned entry, and a page with any outstanding pin
// is never chosen as a victim.
package pagepool

import (
	"container/list"
	"errors"
	"log/slog"
	"sync"

	"github.com/tuannm99/slotdb/internal/lock"
	"github.com/tuannm99/slotdb/internal/storage"
	"github.com/tuannm99/slotdb/pkg/cache"
)

// ErrPoolExhausted is returned when every frame in the pool is pinned and
// a new page cannot be admitted.
var ErrPoolExhausted = errors.New("pagepool: exhausted, every frame is pinned")

// FileID names a registered backend (one per open table file).
type FileID string

// PageKey identifies a single page across every registered file.
type PageKey struct {
	File  FileID
	Index uint32
}

// Backend reads and writes one page's worth of bytes for a registered
// file. TableFile implements this directly.
type Backend interface {
	ReadPage(index uint32, buf []byte) error
	WritePage(index uint32, buf []byte) error
}

type frame struct {
	key   PageKey
	page  *storage.Page
	dirty bool
	pin   *locking.PinCount
	elem  *list.Element
}

// Pool is a fixed-capacity, shared page cache.
type Pool struct {
	mu       sync.Mutex
	capacity int
	pageSize int

	frames   map[PageKey]*frame
	backends map[FileID]Backend
	// recency is ordered MRU (Front) to LRU (Back); element values are
	// PageKey.
	recency *cache.LRUManager
}

// NewPool creates a pool holding at most capacity pages of pageSize bytes.
func NewPool(capacity, pageSize int) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	return &Pool{
		capacity: capacity,
		pageSize: pageSize,
		frames:   make(map[PageKey]*frame),
		backends: make(map[FileID]Backend),
		recency:  cache.NewLRUManager(),
	}
}

// RegisterFile associates a backend with id so pages belonging to it can be
// read/written through on pool miss/eviction.
func (p *Pool) RegisterFile(id FileID, b Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.backends[id] = b
}

// Get returns the cached frame for key, promoting it to most-recently-used.
// It performs no I/O and does not change the frame's pin count.
func (p *Pool) Get(key PageKey) (*storage.Page, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.frames[key]
	if !ok {
		return nil, false
	}
	p.recency.MoveToFront(f.elem)
	return f.page, true
}

// Put inserts a fresh, zeroed page for key, evicting the LRU-most unpinned
// entry if the pool is at capacity. The caller is responsible for filling
// the returned page's bytes (e.g. via a backend read-through) and pinning
// it if it intends to hold a reference across further pool operations.
func (p *Pool) Put(key PageKey) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if f, ok := p.frames[key]; ok {
		p.recency.MoveToFront(f.elem)
		return f.page, nil
	}

	buf := make([]byte, p.pageSize)

	if len(p.frames) >= p.capacity {
		if err := p.evictLocked(); err != nil {
			return nil, err
		}
	}

	page := &storage.Page{Buf: buf, TupleLen: 0}
	f := &frame{
		key:  key,
		page: page,
		pin:  locking.NewPinCount(),
	}
	f.elem = p.recency.PushFront(key)
	p.frames[key] = f
	return page, nil
}

// evictLocked removes the least-recently-used unpinned frame, flushing it
// through its owning file's backend if dirty. p.mu must be held.
func (p *Pool) evictLocked() error {
	for e := p.recency.Back(); e != nil; e = e.Prev() {
		key := e.Value.(PageKey)
		f := p.frames[key]
		if f == nil || f.pin.Get() != 0 {
			continue
		}
		if f.dirty {
			if b, ok := p.backends[key.File]; ok {
				if err := b.WritePage(key.Index, f.page.Buf); err != nil {
					return err
				}
			}
		}
		p.recency.Remove(e)
		delete(p.frames, key)
		return nil
	}
	return ErrPoolExhausted
}

// Pin increments key's pin count, excluding it from eviction.
func (p *Pool) Pin(key PageKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.frames[key]; ok {
		f.pin.Inc()
	}
}

// Unpin decrements key's pin count and, if dirty is true, marks the page
// for write-back on eventual eviction or flush.
func (p *Pool) Unpin(key PageKey, dirty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.frames[key]
	if !ok {
		return
	}
	if dirty {
		f.dirty = true
	}
	f.pin.Dec()
}

// MarkDirty flags key's page as needing write-back without changing its
// pin count.
func (p *Pool) MarkDirty(key PageKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.frames[key]; ok {
		f.dirty = true
	}
}

// FlushFile writes back every dirty page belonging to id.
func (p *Pool) FlushFile(id FileID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.backends[id]
	if !ok {
		return nil
	}
	for key, f := range p.frames {
		if key.File != id || !f.dirty {
			continue
		}
		if err := b.WritePage(key.Index, f.page.Buf); err != nil {
			return err
		}
		f.dirty = false
	}
	return nil
}

// ErrFilePinned is returned by DropFile when a page belonging to the file
// is still pinned.
var ErrFilePinned = errors.New("pagepool: cannot drop file, a page is still pinned")

// DropFile flushes and removes every page belonging to id. It fails if any
// of them is still pinned.
func (p *Pool) DropFile(id FileID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, f := range p.frames {
		if key.File == id && f.pin.Get() != 0 {
			return ErrFilePinned
		}
	}

	b := p.backends[id]
	for key, f := range p.frames {
		if key.File != id {
			continue
		}
		if f.dirty && b != nil {
			if err := b.WritePage(key.Index, f.page.Buf); err != nil {
				return err
			}
		}
		p.recency.Remove(f.elem)
		delete(p.frames, key)
	}
	delete(p.backends, id)
	slog.Debug("pagepool: dropped file", "file", id)
	return nil
}

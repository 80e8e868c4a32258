package storage

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/tuannm99/slotdb/internal/alias/bx"
	"github.com/tuannm99/slotdb/internal/pagepool"
	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/pkg/util"
)

// fileHeaderSize is the two little-endian u32 fields at the front of every
// table file: page_sum and first_free_page.
const fileHeaderSize = 8

// TID addresses a single tuple by its page and slot.
type TID struct {
	PageIndex uint32
	Slot      int
}

// TableFile is a single table's on-disk page array:
//
//	[u32 page_sum][u32 first_free_page][page_sum x pageSize-byte pages]
//
// It registers itself as a pagepool.Backend so the shared pool can read
// and write its pages through on miss/eviction.
type TableFile struct {
	mu       sync.Mutex
	file     *os.File
	schema   *record.Schema
	pageSize int
	pool     *pagepool.Pool
	fileID   pagepool.FileID

	pageSum       uint32
	firstFreePage uint32
}

var _ pagepool.Backend = (*TableFile)(nil)

// OpenTableFile opens (creating if necessary) the table file at path,
// registering it with pool under fileID.
func OpenTableFile(
	path string,
	schema *record.Schema,
	pageSize int,
	pool *pagepool.Pool,
	fileID pagepool.FileID,
) (*TableFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	tf := &TableFile{
		file:     f,
		schema:   schema,
		pageSize: pageSize,
		pool:     pool,
		fileID:   fileID,
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if info.Size() == 0 {
		if err := tf.saveHeader(); err != nil {
			_ = f.Close()
			return nil, err
		}
	} else {
		var hdr [fileHeaderSize]byte
		if _, err := f.ReadAt(hdr[:], 0); err != nil {
			_ = f.Close()
			return nil, err
		}
		tf.pageSum = bx.U32At(hdr[:], 0)
		tf.firstFreePage = bx.U32At(hdr[:], 4)
	}

	pool.RegisterFile(fileID, tf)
	return tf, nil
}

func (tf *TableFile) saveHeader() error {
	var hdr [fileHeaderSize]byte
	bx.PutU32At(hdr[:], 0, tf.pageSum)
	bx.PutU32At(hdr[:], 4, tf.firstFreePage)
	_, err := tf.file.WriteAt(hdr[:], 0)
	return err
}

// ReadPage implements pagepool.Backend: fills buf with page index's bytes,
// leaving it zeroed if the page has never been written (e.g. a brand new
// page created via Put but not yet flushed).
func (tf *TableFile) ReadPage(index uint32, buf []byte) error {
	off := int64(fileHeaderSize) + int64(index)*int64(tf.pageSize)
	_, err := tf.file.ReadAt(buf, off)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

// WritePage implements pagepool.Backend.
func (tf *TableFile) WritePage(index uint32, buf []byte) error {
	off := int64(fileHeaderSize) + int64(index)*int64(tf.pageSize)
	_, err := tf.file.WriteAt(buf, off)
	return err
}

func (tf *TableFile) key(index uint32) pagepool.PageKey {
	return pagepool.PageKey{File: tf.fileID, Index: index}
}

// ensureLoaded returns the pool's buffer for index, allocating and
// reading-through from disk as needed. It does not change the page's pin
// count.
func (tf *TableFile) ensureLoaded(index uint32) (*Page, error) {
	key := tf.key(index)
	if p, ok := tf.pool.Get(key); ok {
		p.TupleLen = tf.schema.TupleLen
		return p, nil
	}
	p, err := tf.pool.Put(key)
	if err != nil {
		return nil, err
	}
	p.TupleLen = tf.schema.TupleLen
	if err := tf.ReadPage(index, p.Buf); err != nil {
		return nil, err
	}
	return p, nil
}

// addPage grows the file by one fresh, empty page and returns its index.
func (tf *TableFile) addPage() (uint32, error) {
	idx := tf.pageSum
	key := tf.key(idx)

	p, err := tf.pool.Put(key)
	if err != nil {
		return 0, err
	}
	p.TupleLen = tf.schema.TupleLen
	p.InitEmpty()
	tf.pool.MarkDirty(key)

	tf.pageSum++
	if err := tf.saveHeader(); err != nil {
		return 0, err
	}
	return idx, nil
}

// PageCount returns the number of pages currently in the file.
func (tf *TableFile) PageCount() uint32 {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.pageSum
}

// Insert encodes values and writes them to the first available slot,
// advancing the table's first-free-page pointer past any full pages and
// growing the file if every existing page is full.
func (tf *TableFile) Insert(values []any) (TID, error) {
	tf.mu.Lock()
	defer tf.mu.Unlock()

	for tf.firstFreePage < tf.pageSum {
		page, err := tf.ensureLoaded(tf.firstFreePage)
		if err != nil {
			return TID{}, err
		}
		if page.IsFull() {
			tf.firstFreePage++
			continue
		}
		break
	}
	if tf.firstFreePage == tf.pageSum {
		idx, err := tf.addPage()
		if err != nil {
			return TID{}, err
		}
		tf.firstFreePage = idx
	}

	pageIdx := tf.firstFreePage
	key := tf.key(pageIdx)

	page, err := tf.ensureLoaded(pageIdx)
	if err != nil {
		return TID{}, err
	}
	tf.pool.Pin(key)
	defer tf.pool.Unpin(key, true)

	buf := make([]byte, tf.schema.TupleLen)
	if err := record.EncodeRow(tf.schema, values, buf); err != nil {
		return TID{}, err
	}

	slot, err := page.Insert(buf)
	if err != nil {
		return TID{}, err
	}
	return TID{PageIndex: pageIdx, Slot: slot}, nil
}

// GetTuple decodes the tuple stored at tid.
func (tf *TableFile) GetTuple(tid TID) ([]any, error) {
	key := tf.key(tid.PageIndex)

	page, err := tf.ensureLoaded(tid.PageIndex)
	if err != nil {
		return nil, err
	}
	tf.pool.Pin(key)
	defer tf.pool.Unpin(key, false)

	raw, err := page.ReadTuple(tid.Slot)
	if err != nil {
		return nil, err
	}
	return record.DecodeRow(tf.schema, raw)
}

// UpdateTuple overwrites the tuple stored at tid in place.
func (tf *TableFile) UpdateTuple(tid TID, values []any) error {
	key := tf.key(tid.PageIndex)

	page, err := tf.ensureLoaded(tid.PageIndex)
	if err != nil {
		return err
	}
	tf.pool.Pin(key)
	defer tf.pool.Unpin(key, true)

	buf := make([]byte, tf.schema.TupleLen)
	if err := record.EncodeRow(tf.schema, values, buf); err != nil {
		return err
	}
	return page.UpdateTuple(tid.Slot, buf)
}

// DeleteTuple clears the slot at tid and pulls the table's first-free-page
// pointer back if tid's page now precedes it.
func (tf *TableFile) DeleteTuple(tid TID) error {
	tf.mu.Lock()
	defer tf.mu.Unlock()

	key := tf.key(tid.PageIndex)

	page, err := tf.ensureLoaded(tid.PageIndex)
	if err != nil {
		return err
	}
	tf.pool.Pin(key)
	defer tf.pool.Unpin(key, true)

	if err := page.Delete(tid.Slot); err != nil {
		return err
	}
	if tid.PageIndex < tf.firstFreePage {
		tf.firstFreePage = tid.PageIndex
	}
	return nil
}

// FetchForScan loads and pins pageIndex for a FileScan that will walk its
// slots across several calls. The caller must call ReleaseScan when done.
func (tf *TableFile) FetchForScan(pageIndex uint32) (*Page, error) {
	page, err := tf.ensureLoaded(pageIndex)
	if err != nil {
		return nil, err
	}
	tf.pool.Pin(tf.key(pageIndex))
	return page, nil
}

// ReleaseScan unpins a page previously fetched with FetchForScan.
func (tf *TableFile) ReleaseScan(pageIndex uint32) {
	tf.pool.Unpin(tf.key(pageIndex), false)
}

// Schema returns the table's column layout.
func (tf *TableFile) Schema() *record.Schema { return tf.schema }

// Close flushes this file's dirty pages and closes the underlying os.File.
// It does not drop the file's pages from the pool.
func (tf *TableFile) Close() error {
	if err := tf.pool.FlushFile(tf.fileID); err != nil {
		return err
	}
	return tf.file.Close()
}

// Drop flushes, evicts every page belonging to this file from the pool,
// closes, and removes the underlying file. A close failure is logged
// rather than aborting the drop, since the file is about to be unlinked
// regardless.
func (tf *TableFile) Drop(path string) error {
	if err := tf.pool.DropFile(tf.fileID); err != nil {
		return err
	}
	util.CloseFileFunc(tf.file)
	return os.Remove(path)
}

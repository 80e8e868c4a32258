package exec

import (
	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/storage"
)

// FileScan walks every page of a table file in page order, and within
// each page every in-use slot in ascending order, pinning one page at a
// time so the page pool never has to hold an entire table resident.
type FileScan struct {
	base
	File *storage.TableFile

	pageIdx   uint32
	pageCount uint32
	curPage   *storage.Page
	pinned    bool
	nextSlot  int
	done      bool
}

func NewFileScan(file *storage.TableFile) *FileScan {
	return &FileScan{File: file}
}

func (f *FileScan) Open() error {
	f.pageCount = f.File.PageCount()
	f.pageIdx = 0
	f.nextSlot = 0
	f.done = f.pageCount == 0
	return nil
}

func (f *FileScan) Next() (*Row, bool) {
	if f.err != nil || f.done {
		return nil, false
	}

	for {
		if f.curPage == nil {
			if f.pageIdx >= f.pageCount {
				f.done = true
				return nil, false
			}
			page, err := f.File.FetchForScan(f.pageIdx)
			if err != nil {
				return f.fail(err)
			}
			f.curPage = page
			f.pinned = true
			f.nextSlot = 0
		}

		slot, ok := f.curPage.NextSlot(f.nextSlot)
		if !ok {
			f.File.ReleaseScan(f.pageIdx)
			f.curPage = nil
			f.pinned = false
			f.pageIdx++
			continue
		}

		raw, err := f.curPage.ReadTuple(slot)
		if err != nil {
			return f.fail(err)
		}
		values, err := record.DecodeRow(f.File.Schema(), raw)
		if err != nil {
			return f.fail(err)
		}
		f.nextSlot = slot + 1
		return &Row{Values: values, TID: storage.TID{PageIndex: f.pageIdx, Slot: slot}}, true
	}
}

func (f *FileScan) Close() error {
	if f.pinned {
		f.File.ReleaseScan(f.pageIdx)
		f.pinned = false
	}
	f.done = true
	return nil
}

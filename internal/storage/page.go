// Package storage implements the on-disk page and table-file layer: a
// bitmap-addressed slotted page holding fixed-stride tuples, and a table
// file that is simply a growable array of such pages behind a two-word
// header.
package storage

import (
	"errors"

	"github.com/tuannm99/slotdb/internal/alias/bx"
)

// headerSize is the two little-endian u32 fields at the front of every
// page: slot_sum and first_free_slot.
const headerSize = 8

var (
	ErrPageFull       = errors.New("storage: page has no free slot")
	ErrSlotOutOfRange = errors.New("storage: slot index out of range")
	ErrSlotEmpty      = errors.New("storage: slot is not in use")
	ErrTupleTooSmall  = errors.New("storage: column layout does not fit in one page")
)

// SlotSum computes the number of fixed-width slots that fit in a page of
// pageSize bytes holding tuples of tupleLen bytes each, after accounting
// for the header and the bitmap itself:
//
//	slot_sum = floor((8*(pageSize-8) - 7) / (8*tupleLen + 1))
func SlotSum(pageSize, tupleLen int) int {
	return (8*(pageSize-headerSize) - 7) / (8*tupleLen + 1)
}

// Page is a single fixed-size buffer laid out as:
//
//	[u32 slot_sum][u32 first_free_slot][bitmap: ceil(slot_sum/8) bytes][slots...]
type Page struct {
	Buf      []byte
	TupleLen int
}

// NewPage wraps buf (len(buf) == pageSize) as a Page for tuples of the
// given length. It does not touch the bytes; call InitEmpty for a fresh
// page or LoadHeader after reading bytes off disk.
func NewPage(buf []byte, tupleLen int) (*Page, error) {
	if tupleLen <= 0 {
		return nil, ErrTupleTooSmall
	}
	if SlotSum(len(buf), tupleLen) <= 0 {
		return nil, ErrTupleTooSmall
	}
	return &Page{Buf: buf, TupleLen: tupleLen}, nil
}

// InitEmpty zeroes buf and writes a fresh header/bitmap for an empty page.
func (p *Page) InitEmpty() {
	for i := range p.Buf {
		p.Buf[i] = 0
	}
	bx.PutU32At(p.Buf, 0, uint32(p.slotSumCapacity()))
	bx.PutU32At(p.Buf, 4, 0)
}

func (p *Page) slotSumCapacity() int {
	return SlotSum(len(p.Buf), p.TupleLen)
}

// SlotSum returns the page's slot capacity, read from its header.
func (p *Page) SlotSum() int {
	return int(bx.U32At(p.Buf, 0))
}

// FirstFreeSlot returns the smallest unused slot index, or SlotSum() if
// the page is full.
func (p *Page) FirstFreeSlot() int {
	return int(bx.U32At(p.Buf, 4))
}

func (p *Page) setFirstFreeSlot(v int) {
	bx.PutU32At(p.Buf, 4, uint32(v))
}

func (p *Page) bitmapBytes() int {
	return (p.SlotSum() + 7) / 8
}

func (p *Page) bitmapOffset() int { return headerSize }

func (p *Page) tupleOffset(slot int) int {
	return headerSize + p.bitmapBytes() + slot*p.TupleLen
}

// IsInUse reports whether slot currently holds a tuple.
func (p *Page) IsInUse(slot int) bool {
	byteOff := p.bitmapOffset() + slot/8
	bit := byte(1) << uint(slot%8)
	return p.Buf[byteOff]&bit != 0
}

func (p *Page) setInUse(slot int, inUse bool) {
	byteOff := p.bitmapOffset() + slot/8
	bit := byte(1) << uint(slot%8)
	if inUse {
		p.Buf[byteOff] |= bit
	} else {
		p.Buf[byteOff] &^= bit
	}
}

// scanFirstFree walks the bitmap for the smallest unset bit, returning
// SlotSum() if every slot is in use.
func (p *Page) scanFirstFree() int {
	slotSum := p.SlotSum()
	nbytes := p.bitmapBytes()
	base := p.bitmapOffset()
	for i := 0; i < nbytes; i++ {
		b := p.Buf[base+i]
		if b == 0xFF {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			idx := i*8 + bit
			if idx >= slotSum {
				return slotSum
			}
			if b&(1<<uint(bit)) == 0 {
				return idx
			}
		}
	}
	return slotSum
}

// NextSlot returns the smallest in-use slot index >= from, or (0, false)
// if none remain.
func (p *Page) NextSlot(from int) (int, bool) {
	slotSum := p.SlotSum()
	for i := from; i < slotSum; i++ {
		if p.IsInUse(i) {
			return i, true
		}
	}
	return 0, false
}

// Insert writes tuple into the page's first free slot and returns its
// index. tuple must be exactly TupleLen bytes.
func (p *Page) Insert(tuple []byte) (int, error) {
	if len(tuple) != p.TupleLen {
		return 0, ErrTupleTooSmall
	}
	slot := p.FirstFreeSlot()
	if slot >= p.SlotSum() {
		return 0, ErrPageFull
	}
	copy(p.Buf[p.tupleOffset(slot):p.tupleOffset(slot)+p.TupleLen], tuple)
	p.setInUse(slot, true)
	p.setFirstFreeSlot(p.scanFirstFree())
	return slot, nil
}

// ReadTuple returns the raw bytes stored at slot.
func (p *Page) ReadTuple(slot int) ([]byte, error) {
	if slot < 0 || slot >= p.SlotSum() {
		return nil, ErrSlotOutOfRange
	}
	if !p.IsInUse(slot) {
		return nil, ErrSlotEmpty
	}
	off := p.tupleOffset(slot)
	return p.Buf[off : off+p.TupleLen], nil
}

// UpdateTuple overwrites the bytes stored at slot in place.
func (p *Page) UpdateTuple(slot int, tuple []byte) error {
	if len(tuple) != p.TupleLen {
		return ErrTupleTooSmall
	}
	if slot < 0 || slot >= p.SlotSum() {
		return ErrSlotOutOfRange
	}
	if !p.IsInUse(slot) {
		return ErrSlotEmpty
	}
	off := p.tupleOffset(slot)
	copy(p.Buf[off:off+p.TupleLen], tuple)
	return nil
}

// Delete clears slot's in-use bit and pulls first_free_slot down to slot
// if it now precedes the previous free pointer.
func (p *Page) Delete(slot int) error {
	if slot < 0 || slot >= p.SlotSum() {
		return ErrSlotOutOfRange
	}
	if !p.IsInUse(slot) {
		return ErrSlotEmpty
	}
	p.setInUse(slot, false)
	if slot < p.FirstFreeSlot() {
		p.setFirstFreeSlot(slot)
	}
	return nil
}

// IsFull reports whether the page has no free slot left.
func (p *Page) IsFull() bool {
	return p.FirstFreeSlot() >= p.SlotSum()
}

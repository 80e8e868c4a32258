// Package locking holds small concurrency primitives shared by the storage
// layer, independent of any one caller's locking discipline.
package locking

// used for pin/unpin pages
// when a page's pin count reaches zero it becomes eligible for eviction

import (
	"fmt"
	"sync/atomic"
)

// PinCount is an atomic, non-negative reference count. A freshly allocated
// page frame starts unpinned (count 0); Pool.Pin increments it and
// Pool.Unpin decrements it while some caller is actively touching the page
// (a FileScan holds a pin on its current page), and the page pool only
// considers frames with count 0 as eviction candidates.
type PinCount struct {
	count int32
}

func NewPinCount() *PinCount {
	return &PinCount{count: 0}
}

func (r *PinCount) Inc() {
	atomic.AddInt32(&r.count, 1)
}

// Dec decrements the count and reports whether it reached zero.
func (r *PinCount) Dec() bool {
	newCount := atomic.AddInt32(&r.count, -1)
	if newCount < 0 {
		panic("pincount dropped below zero")
	}
	return newCount == 0
}

func (r *PinCount) Get() int32 {
	return atomic.LoadInt32(&r.count)
}

func (r *PinCount) String() string {
	return fmt.Sprintf("PinCount: %d", r.Get())
}

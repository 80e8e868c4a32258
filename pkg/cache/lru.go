// Package cache wraps container/list into the recency-ordered doubly
// linked list a page pool needs: O(1) promote-to-MRU, O(1) remove from
// any position, and scan-from-LRU for eviction.
package cache

import "container/list"

// LRUManager tracks recency order only; it does not hold its own lock.
// Callers that share it across goroutines (the page pool does) must
// already serialize access with their own mutex, so this type never
// pays for a second layer of locking.
type LRUManager struct {
	lruList *list.List
}

func NewLRUManager() *LRUManager {
	return &LRUManager{lruList: list.New()}
}

// MoveToFront promotes elem to most-recently-used.
func (l *LRUManager) MoveToFront(elem *list.Element) {
	l.lruList.MoveToFront(elem)
}

// Remove drops elem from the list.
func (l *LRUManager) Remove(elem *list.Element) {
	l.lruList.Remove(elem)
}

// PushFront inserts value as most-recently-used and returns its element.
func (l *LRUManager) PushFront(value any) *list.Element {
	return l.lruList.PushFront(value)
}

// Back returns the least-recently-used element, or nil if the list is empty.
func (l *LRUManager) Back() *list.Element {
	return l.lruList.Back()
}

// Len returns the number of tracked elements.
func (l *LRUManager) Len() int {
	return l.lruList.Len()
}

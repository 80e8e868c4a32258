package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageInsertReadDelete(t *testing.T) {
	const pageSize = 128
	tupleLen := 12

	p, err := NewPage(make([]byte, pageSize), tupleLen)
	require.NoError(t, err)
	p.InitEmpty()

	require.Greater(t, p.SlotSum(), 0)
	require.Equal(t, 0, p.FirstFreeSlot())

	tuple := make([]byte, tupleLen)
	copy(tuple, "hello world!")

	slot, err := p.Insert(tuple)
	require.NoError(t, err)
	require.Equal(t, 0, slot)
	require.Equal(t, 1, p.FirstFreeSlot())

	got, err := p.ReadTuple(slot)
	require.NoError(t, err)
	require.Equal(t, tuple, got)

	require.NoError(t, p.Delete(slot))
	require.Equal(t, 0, p.FirstFreeSlot())
	_, err = p.ReadTuple(slot)
	require.ErrorIs(t, err, ErrSlotEmpty)
}

func TestPageFillsUpAndReportsFull(t *testing.T) {
	const pageSize = 64
	tupleLen := 20

	p, err := NewPage(make([]byte, pageSize), tupleLen)
	require.NoError(t, err)
	p.InitEmpty()

	tuple := make([]byte, tupleLen)
	var slots []int
	for !p.IsFull() {
		slot, err := p.Insert(tuple)
		require.NoError(t, err)
		slots = append(slots, slot)
	}

	require.True(t, p.IsFull())
	_, err = p.Insert(tuple)
	require.ErrorIs(t, err, ErrPageFull)

	require.NoError(t, p.Delete(slots[0]))
	require.False(t, p.IsFull())
	require.Equal(t, slots[0], p.FirstFreeSlot())
}

func TestPageNextSlotSkipsHoles(t *testing.T) {
	const pageSize = 128
	p, err := NewPage(make([]byte, pageSize), 8)
	require.NoError(t, err)
	p.InitEmpty()

	tuple := make([]byte, 8)
	s0, _ := p.Insert(tuple)
	s1, _ := p.Insert(tuple)
	_, _ = p.Insert(tuple)
	require.NoError(t, p.Delete(s1))

	first, ok := p.NextSlot(0)
	require.True(t, ok)
	require.Equal(t, s0, first)

	next, ok := p.NextSlot(s0 + 1)
	require.True(t, ok)
	require.NotEqual(t, s1, next)
}

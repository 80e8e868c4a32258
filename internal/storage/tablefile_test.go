package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/slotdb/internal/pagepool"
	"github.com/tuannm99/slotdb/internal/record"
)

func testTableSchema(t *testing.T) *record.Schema {
	t.Helper()
	s, err := record.NewSchema("widgets", []record.Column{
		{Name: "id", Kind: record.KindInt, Primary: true},
		{Name: "name", Kind: record.KindChar, Len: 8},
	})
	require.NoError(t, err)
	return s
}

func openTestTableFile(t *testing.T, pool *pagepool.Pool) *TableFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widgets.tbl")
	tf, err := OpenTableFile(path, testTableSchema(t), 128, pool, pagepool.FileID(path))
	require.NoError(t, err)
	return tf
}

func TestTableFileInsertAndGet(t *testing.T) {
	pool := pagepool.NewPool(8, 128)
	tf := openTestTableFile(t, pool)

	tid, err := tf.Insert([]any{int32(1), "alice"})
	require.NoError(t, err)

	values, err := tf.GetTuple(tid)
	require.NoError(t, err)
	require.Equal(t, []any{int32(1), "alice"}, values)
}

func TestTableFileGrowsAcrossPages(t *testing.T) {
	pool := pagepool.NewPool(8, 128)
	tf := openTestTableFile(t, pool)

	var tids []TID
	for i := 0; i < 50; i++ {
		tid, err := tf.Insert([]any{int32(i), "x"})
		require.NoError(t, err)
		tids = append(tids, tid)
	}
	require.Greater(t, tf.PageCount(), uint32(1))

	for i, tid := range tids {
		values, err := tf.GetTuple(tid)
		require.NoError(t, err)
		require.Equal(t, int32(i), values[0])
	}
}

func TestTableFileDeleteFreesSlot(t *testing.T) {
	pool := pagepool.NewPool(8, 128)
	tf := openTestTableFile(t, pool)

	tid, err := tf.Insert([]any{int32(1), "a"})
	require.NoError(t, err)
	require.NoError(t, tf.DeleteTuple(tid))

	_, err = tf.GetTuple(tid)
	require.ErrorIs(t, err, ErrSlotEmpty)

	tid2, err := tf.Insert([]any{int32(2), "b"})
	require.NoError(t, err)
	require.Equal(t, tid.PageIndex, tid2.PageIndex)
	require.Equal(t, tid.Slot, tid2.Slot)
}

func TestTableFileUpdateInPlace(t *testing.T) {
	pool := pagepool.NewPool(8, 128)
	tf := openTestTableFile(t, pool)

	tid, err := tf.Insert([]any{int32(1), "a"})
	require.NoError(t, err)
	require.NoError(t, tf.UpdateTuple(tid, []any{int32(1), "zzz"}))

	values, err := tf.GetTuple(tid)
	require.NoError(t, err)
	require.Equal(t, "zzz", values[1])
}

func TestTableFileSurvivesReopen(t *testing.T) {
	pool := pagepool.NewPool(8, 128)
	path := filepath.Join(t.TempDir(), "widgets.tbl")
	schema := testTableSchema(t)

	tf, err := OpenTableFile(path, schema, 128, pool, pagepool.FileID(path))
	require.NoError(t, err)
	tid, err := tf.Insert([]any{int32(9), "hi"})
	require.NoError(t, err)
	require.NoError(t, tf.Close())

	pool2 := pagepool.NewPool(8, 128)
	tf2, err := OpenTableFile(path, schema, 128, pool2, pagepool.FileID(path))
	require.NoError(t, err)
	values, err := tf2.GetTuple(tid)
	require.NoError(t, err)
	require.Equal(t, []any{int32(9), "hi"}, values)
}

package exec

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/slotdb/internal/catalog"
	"github.com/tuannm99/slotdb/internal/pagepool"
	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/sqlast"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	pool := pagepool.NewPool(16, 256)
	cat, err := catalog.Open(filepath.Join(dir, "meta"), filepath.Join(dir, "files"), 256, pool)
	require.NoError(t, err)
	return cat
}

func mustCreateUsers(t *testing.T, cat *catalog.Catalog) *catalog.OpenTable {
	t.Helper()
	ot, err := cat.CreateTable("users", []record.Column{
		{Name: "id", Kind: record.KindInt, Primary: true},
		{Name: "name", Kind: record.KindChar, Len: 10},
	})
	require.NoError(t, err)
	return ot
}

func drain(t *testing.T, it Iterator) []*Row {
	t.Helper()
	require.NoError(t, it.Open())
	var rows []*Row
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	return rows
}

func TestInsertThenFileScan(t *testing.T) {
	cat := newTestCatalog(t)
	ot := mustCreateUsers(t, cat)

	for i := 0; i < 3; i++ {
		ins := NewInsert(ot.File, []any{int32(i), "n"})
		rows := drain(t, ins)
		require.Len(t, rows, 0)
		require.Equal(t, 1, ins.Affected())
	}

	scan := NewFileScan(ot.File)
	rows := drain(t, scan)
	require.Len(t, rows, 3)
}

func TestFilterNarrowsRows(t *testing.T) {
	cat := newTestCatalog(t)
	ot := mustCreateUsers(t, cat)

	for i := 0; i < 5; i++ {
		_, _ = ot.File.Insert([]any{int32(i), "n"})
	}

	cond := &sqlast.CmpCond{
		Op:    sqlast.Gt,
		Left:  &sqlast.ColumnExpr{Name: "id"},
		Right: &sqlast.LiteralExpr{Value: int32(2)},
	}
	f := NewFilter(cond, ot.Schema, NewFileScan(ot.File))
	rows := drain(t, f)
	require.Len(t, rows, 2)
}

func TestProjectionNarrowsColumns(t *testing.T) {
	cat := newTestCatalog(t)
	ot := mustCreateUsers(t, cat)
	_, _ = ot.File.Insert([]any{int32(1), "bob"})

	proj := NewProjection([]int{1}, NewFileScan(ot.File))
	rows := drain(t, proj)
	require.Len(t, rows, 1)
	require.Equal(t, []any{"bob"}, rows[0].Values)
}

func TestDeleteRemovesMatchingRows(t *testing.T) {
	cat := newTestCatalog(t)
	ot := mustCreateUsers(t, cat)
	for i := 0; i < 3; i++ {
		_, _ = ot.File.Insert([]any{int32(i), "n"})
	}

	cond := &sqlast.CmpCond{Op: sqlast.Eq, Left: &sqlast.ColumnExpr{Name: "id"}, Right: &sqlast.LiteralExpr{Value: int32(1)}}
	del := NewDelete(ot.File, NewFilter(cond, ot.Schema, NewFileScan(ot.File)))
	rows := drain(t, del)
	require.Len(t, rows, 1)

	remaining := drain(t, NewFileScan(ot.File))
	require.Len(t, remaining, 2)
}

func TestUpdateRewritesMatchingRows(t *testing.T) {
	cat := newTestCatalog(t)
	ot := mustCreateUsers(t, cat)
	_, _ = ot.File.Insert([]any{int32(1), "old"})

	sets := []sqlast.Assignment{{Column: "name", Value: &sqlast.LiteralExpr{Value: "new"}}}
	upd := NewUpdate(ot.File, ot.Schema, sets, NewFileScan(ot.File))
	rows := drain(t, upd)
	require.Len(t, rows, 1)
	require.Equal(t, "new", rows[0].Values[1])
}

func TestCheckAndInsertRejectsDuplicatePrimaryKey(t *testing.T) {
	cat := newTestCatalog(t)
	ot := mustCreateUsers(t, cat)
	_, _ = ot.File.Insert([]any{int32(1), "a"})

	probeCond := &sqlast.CmpCond{Op: sqlast.Eq, Left: &sqlast.ColumnExpr{Name: "id"}, Right: &sqlast.LiteralExpr{Value: int32(1)}}
	probe := NewFilter(probeCond, ot.Schema, NewFileScan(ot.File))
	cai := NewCheckAndInsert(probe, NewInsert(ot.File, []any{int32(1), "dup"}))

	require.NoError(t, cai.Open())
	_, ok := cai.Next()
	require.False(t, ok)
	require.ErrorIs(t, cai.Err(), ErrPrimaryKeyExists)
	require.NoError(t, cai.Close())
}

func TestCreateAndDropTable(t *testing.T) {
	cat := newTestCatalog(t)

	ct := NewCreateTable(cat, "widgets", []record.Column{
		{Name: "id", Kind: record.KindInt, Primary: true},
	})
	rows := drain(t, ct)
	require.Len(t, rows, 0)
	require.Equal(t, 1, ct.Affected())

	_, err := cat.Resolve("widgets")
	require.NoError(t, err)

	dt := NewDropTable(cat, "widgets")
	rows = drain(t, dt)
	require.Len(t, rows, 0)
	require.Equal(t, 1, dt.Affected())

	_, err = cat.Resolve("widgets")
	require.ErrorIs(t, err, catalog.ErrNoSuchTable)
}

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/slotdb/internal/pagepool"
	"github.com/tuannm99/slotdb/internal/record"
)

func testCols() []record.Column {
	return []record.Column{
		{Name: "id", Kind: record.KindInt, Primary: true},
		{Name: "name", Kind: record.KindChar, Len: 12},
	}
}

func TestCatalogCreateDropTable(t *testing.T) {
	dir := t.TempDir()
	pool := pagepool.NewPool(8, 256)
	cat, err := Open(filepath.Join(dir, "meta"), filepath.Join(dir, "files"), 256, pool)
	require.NoError(t, err)

	ot, err := cat.CreateTable("users", testCols())
	require.NoError(t, err)
	require.Equal(t, 0, ot.Schema.IndexOf("id"))

	_, err = cat.CreateTable("users", testCols())
	require.ErrorIs(t, err, ErrTableExists)

	got, err := cat.Resolve("users")
	require.NoError(t, err)
	require.Same(t, ot, got)

	require.NoError(t, cat.DropTable("users"))
	_, err = cat.Resolve("users")
	require.ErrorIs(t, err, ErrNoSuchTable)
}

func TestCatalogPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	metaDir := filepath.Join(dir, "meta")
	fileDir := filepath.Join(dir, "files")

	pool := pagepool.NewPool(8, 256)
	cat, err := Open(metaDir, fileDir, 256, pool)
	require.NoError(t, err)

	ot, err := cat.CreateTable("widgets", testCols())
	require.NoError(t, err)
	tid, err := ot.File.Insert([]any{int32(1), "thing"})
	require.NoError(t, err)
	require.NoError(t, cat.Close())

	pool2 := pagepool.NewPool(8, 256)
	cat2, err := Open(metaDir, fileDir, 256, pool2)
	require.NoError(t, err)

	reopened, err := cat2.Resolve("widgets")
	require.NoError(t, err)
	values, err := reopened.File.GetTuple(tid)
	require.NoError(t, err)
	require.Equal(t, []any{int32(1), "thing"}, values)
}

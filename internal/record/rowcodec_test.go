package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("users", []Column{
		{Name: "id", Kind: KindInt, Primary: true},
		{Name: "score", Kind: KindFloat},
		{Name: "name", Kind: KindChar, Len: 10},
	})
	require.NoError(t, err)
	return s
}

func TestNewSchemaDerivesLayout(t *testing.T) {
	s := testSchema(t)
	require.Equal(t, []int{0, 4, 8}, s.AttrOffsets)
	require.Equal(t, 8+((10+3)/4)*4, s.TupleLen)
	require.Equal(t, 0, s.PrimaryIdx)
	require.Equal(t, 2, s.IndexOf("name"))
	require.Equal(t, -1, s.IndexOf("nope"))
}

func TestNewSchemaRejectsMissingPrimaryKey(t *testing.T) {
	_, err := NewSchema("t", []Column{{Name: "a", Kind: KindInt}})
	require.ErrorIs(t, err, ErrNoPrimaryKey)
}

func TestNewSchemaRejectsNonIntPrimaryKey(t *testing.T) {
	_, err := NewSchema("t", []Column{{Name: "a", Kind: KindChar, Len: 4, Primary: true}})
	require.ErrorIs(t, err, ErrBadPrimaryKeyType)
}

func TestEncodeDecodeRowRoundTrip(t *testing.T) {
	s := testSchema(t)
	buf := make([]byte, s.TupleLen)

	values := []any{int32(7), float32(3.5), "bob"}
	require.NoError(t, EncodeRow(s, values, buf))

	got, err := DecodeRow(s, buf)
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestEncodeRowRejectsCharTooLong(t *testing.T) {
	s := testSchema(t)
	buf := make([]byte, s.TupleLen)
	err := EncodeRow(s, []any{int32(1), float32(1), "this name is way too long"}, buf)
	require.ErrorIs(t, err, ErrCharTooLong)
}

func TestEncodeRowRejectsSchemaMismatch(t *testing.T) {
	s := testSchema(t)
	buf := make([]byte, s.TupleLen)
	err := EncodeRow(s, []any{"not an int", float32(1), "bob"}, buf)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

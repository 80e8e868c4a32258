package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/slotdb/internal/sqlast"
)

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE users (id INT PRIMARY KEY, name CHAR(10), score FLOAT);")
	require.NoError(t, err)

	ct, ok := stmt.(*sqlast.CreateTableStmt)
	require.True(t, ok)
	require.Equal(t, "users", ct.Table)
	require.Len(t, ct.Columns, 3)
	require.True(t, ct.Columns[0].Primary)
	require.Equal(t, "CHAR", ct.Columns[1].Kind)
	require.Equal(t, 10, ct.Columns[1].CharLen)
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse("INSERT INTO users VALUES (1, 'bob', 3.5);")
	require.NoError(t, err)

	ins, ok := stmt.(*sqlast.InsertStmt)
	require.True(t, ok)
	require.Equal(t, "users", ins.Table)
	require.Len(t, ins.Values, 3)
	require.Equal(t, int32(1), ins.Values[0].(*sqlast.LiteralExpr).Value)
	require.Equal(t, "bob", ins.Values[1].(*sqlast.LiteralExpr).Value)
}

func TestParseSelectWithWhereTree(t *testing.T) {
	stmt, err := Parse("SELECT id, name FROM users WHERE id = 1 AND (score > 2 OR NOT name = 'x');")
	require.NoError(t, err)

	sel, ok := stmt.(*sqlast.SelectStmt)
	require.True(t, ok)
	require.Equal(t, []string{"id", "name"}, sel.Columns)

	and, ok := sel.Where.(*sqlast.AndCond)
	require.True(t, ok)
	_, ok = and.Left.(*sqlast.CmpCond)
	require.True(t, ok)
	_, ok = and.Right.(*sqlast.OrCond)
	require.True(t, ok)
}

func TestParseSelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM users;")
	require.NoError(t, err)
	sel := stmt.(*sqlast.SelectStmt)
	require.Nil(t, sel.Columns)
	require.Nil(t, sel.Where)
}

func TestParseUpdateWithArithmetic(t *testing.T) {
	stmt, err := Parse("UPDATE users SET score = score + 1 WHERE id = 2;")
	require.NoError(t, err)

	upd, ok := stmt.(*sqlast.UpdateStmt)
	require.True(t, ok)
	require.Len(t, upd.Sets, 1)
	require.Equal(t, "score", upd.Sets[0].Column)
	bin, ok := upd.Sets[0].Value.(*sqlast.BinaryExpr)
	require.True(t, ok)
	require.Equal(t, sqlast.Add, bin.Op)
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM users WHERE id = 3;")
	require.NoError(t, err)
	del, ok := stmt.(*sqlast.DeleteStmt)
	require.True(t, ok)
	require.Equal(t, "users", del.Table)
	require.NotNil(t, del.Where)
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse("DROP TABLE users;")
	require.NoError(t, err)
	drop, ok := stmt.(*sqlast.DropTableStmt)
	require.True(t, ok)
	require.Equal(t, "users", drop.Table)
}

func TestParseRejectsUnknownStatement(t *testing.T) {
	_, err := Parse("FROBNICATE users;")
	require.Error(t, err)
}

func TestParseRequiresTrailingSemicolon(t *testing.T) {
	_, err := Parse("DROP TABLE users")
	require.Error(t, err)
}

// Package planner translates a parsed statement into an iterator tree
// ready to run against an open catalog.
package planner

import (
	"errors"
	"fmt"

	"github.com/tuannm99/slotdb/internal/catalog"
	"github.com/tuannm99/slotdb/internal/exec"
	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/sqlast"
)

var ErrNoPrimaryKeyValue = errors.New("planner: INSERT is missing a value for the primary key column")

// Build turns stmt into a runnable exec.Iterator against cat.
func Build(stmt sqlast.Statement, cat *catalog.Catalog) (exec.Iterator, error) {
	switch s := stmt.(type) {
	case *sqlast.CreateTableStmt:
		return buildCreateTable(s, cat)
	case *sqlast.DropTableStmt:
		return exec.NewDropTable(cat, s.Table), nil
	case *sqlast.InsertStmt:
		return buildInsert(s, cat)
	case *sqlast.SelectStmt:
		return buildSelect(s, cat)
	case *sqlast.UpdateStmt:
		return buildUpdate(s, cat)
	case *sqlast.DeleteStmt:
		return buildDelete(s, cat)
	default:
		return nil, fmt.Errorf("planner: unsupported statement %T", stmt)
	}
}

func buildCreateTable(s *sqlast.CreateTableStmt, cat *catalog.Catalog) (exec.Iterator, error) {
	cols := make([]record.Column, len(s.Columns))
	for i, cd := range s.Columns {
		kind, err := kindFromName(cd.Kind)
		if err != nil {
			return nil, err
		}
		cols[i] = record.Column{
			Name:     cd.Name,
			Kind:     kind,
			Len:      cd.CharLen,
			Primary:  cd.Primary,
			Nullable: cd.Nullable,
		}
	}
	return exec.NewCreateTable(cat, s.Table, cols), nil
}

func buildInsert(s *sqlast.InsertStmt, cat *catalog.Catalog) (exec.Iterator, error) {
	ot, err := cat.Resolve(s.Table)
	if err != nil {
		return nil, err
	}

	pk := ot.Schema.PrimaryKeyColumn()
	values := make([]any, len(s.Values))
	for i, e := range s.Values {
		lit, ok := e.(*sqlast.LiteralExpr)
		if !ok {
			return nil, fmt.Errorf("planner: INSERT values must be literals, got %T", e)
		}
		values[i] = lit.Value
	}

	pkIdx := ot.Schema.IndexOf(pk.Name)
	if pkIdx < 0 || pkIdx >= len(values) {
		return nil, ErrNoPrimaryKeyValue
	}

	probeCond := &sqlast.CmpCond{
		Op:    sqlast.Eq,
		Left:  &sqlast.ColumnExpr{Name: pk.Name},
		Right: &sqlast.LiteralExpr{Value: values[pkIdx]},
	}
	probe := exec.NewFilter(probeCond, ot.Schema, exec.NewFileScan(ot.File))
	insert := exec.NewInsert(ot.File, values)
	return exec.NewCheckAndInsert(probe, insert), nil
}

func buildSelect(s *sqlast.SelectStmt, cat *catalog.Catalog) (exec.Iterator, error) {
	ot, err := cat.Resolve(s.Table)
	if err != nil {
		return nil, err
	}

	var scan exec.Iterator = exec.NewFileScan(ot.File)
	if s.Where != nil {
		scan = exec.NewFilter(s.Where, ot.Schema, scan)
	}
	if s.Columns == nil {
		return scan, nil
	}

	idx := make([]int, len(s.Columns))
	for i, name := range s.Columns {
		col := ot.Schema.IndexOf(name)
		if col < 0 {
			return nil, fmt.Errorf("planner: unknown column %q in SELECT list", name)
		}
		idx[i] = col
	}
	return exec.NewProjection(idx, scan), nil
}

func buildUpdate(s *sqlast.UpdateStmt, cat *catalog.Catalog) (exec.Iterator, error) {
	ot, err := cat.Resolve(s.Table)
	if err != nil {
		return nil, err
	}
	var scan exec.Iterator = exec.NewFileScan(ot.File)
	if s.Where != nil {
		scan = exec.NewFilter(s.Where, ot.Schema, scan)
	}
	return exec.NewUpdate(ot.File, ot.Schema, s.Sets, scan), nil
}

func buildDelete(s *sqlast.DeleteStmt, cat *catalog.Catalog) (exec.Iterator, error) {
	ot, err := cat.Resolve(s.Table)
	if err != nil {
		return nil, err
	}
	var scan exec.Iterator = exec.NewFileScan(ot.File)
	if s.Where != nil {
		scan = exec.NewFilter(s.Where, ot.Schema, scan)
	}
	return exec.NewDelete(ot.File, scan), nil
}

func kindFromName(name string) (record.Kind, error) {
	switch name {
	case "INT":
		return record.KindInt, nil
	case "FLOAT":
		return record.KindFloat, nil
	case "CHAR":
		return record.KindChar, nil
	default:
		return 0, fmt.Errorf("planner: unknown column type %q", name)
	}
}

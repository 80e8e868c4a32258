package exec

import (
	"fmt"

	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/sqlast"
	"github.com/tuannm99/slotdb/internal/storage"
)

// Update rewrites every row its child produces by applying Sets, then
// writes the new tuple back in place.
type Update struct {
	base
	File   *storage.TableFile
	Schema *record.Schema
	Sets   []sqlast.Assignment
	Child  Iterator
}

func NewUpdate(file *storage.TableFile, schema *record.Schema, sets []sqlast.Assignment, child Iterator) *Update {
	return &Update{File: file, Schema: schema, Sets: sets, Child: child}
}

func (u *Update) Open() error { return u.Child.Open() }

func (u *Update) Next() (*Row, bool) {
	if u.err != nil {
		return nil, false
	}
	row, ok := u.Child.Next()
	if !ok {
		if err := u.Child.Err(); err != nil {
			return u.fail(err)
		}
		return nil, false
	}

	newValues := make([]any, len(row.Values))
	copy(newValues, row.Values)

	for _, asn := range u.Sets {
		idx := u.Schema.IndexOf(asn.Column)
		if idx < 0 {
			return u.fail(fmt.Errorf("exec: unknown column %q in SET", asn.Column))
		}
		v, err := evalExpr(asn.Value, u.Schema, row)
		if err != nil {
			return u.fail(err)
		}
		newValues[idx] = v
	}

	if err := u.File.UpdateTuple(row.TID, newValues); err != nil {
		return u.fail(err)
	}
	return &Row{Values: newValues, TID: row.TID}, true
}

func (u *Update) Close() error { return u.Child.Close() }

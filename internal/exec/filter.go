package exec

import (
	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/sqlast"
)

// Filter passes through only rows from Child that satisfy Cond.
type Filter struct {
	base
	Cond   sqlast.Condition
	Schema *record.Schema
	Child  Iterator
}

func NewFilter(cond sqlast.Condition, schema *record.Schema, child Iterator) *Filter {
	return &Filter{Cond: cond, Schema: schema, Child: child}
}

func (f *Filter) Open() error { return f.Child.Open() }

func (f *Filter) Next() (*Row, bool) {
	if f.err != nil {
		return nil, false
	}
	for {
		row, ok := f.Child.Next()
		if !ok {
			if err := f.Child.Err(); err != nil {
				return f.fail(err)
			}
			return nil, false
		}
		match, err := evaluate(f.Cond, f.Schema, row)
		if err != nil {
			return f.fail(err)
		}
		if match {
			return row, true
		}
	}
}

func (f *Filter) Close() error { return f.Child.Close() }

// Package resultsink defines the callback interface the Request Serializer
// drives as it drains an iterator tree, plus a simple collecting
// implementation for in-process callers (the wire server, tests).
package resultsink

import "github.com/tuannm99/slotdb/internal/record"

// ColumnInfo describes one projected column of a query's result.
type ColumnInfo struct {
	Name string
	Kind record.Kind
}

// Sink receives the output of one executed statement. SetTupleInfo is
// called exactly once before the first HandleTuple on statements that
// produce columns (SELECT); SetAffected is called at most once, for
// statements whose result is a rows-affected count rather than a row
// stream (INSERT, CREATE/DROP TABLE). HandleEnd marks clean completion,
// after which no further HandleTuple/HandleError calls follow. HandleError
// fires at most once, and ends the stream in place of HandleEnd.
type Sink interface {
	SetTupleInfo(columns []ColumnInfo)
	SetAffected(n int)
	HandleTuple(row []any)
	HandleEnd()
	HandleError(err error)
}

// Collector is a Sink that buffers everything in memory, used by the wire
// server to build one response frame and by tests.
type Collector struct {
	Columns  []ColumnInfo
	Rows     [][]any
	Affected int
	Err      error
}

func (c *Collector) SetTupleInfo(columns []ColumnInfo) { c.Columns = columns }

func (c *Collector) SetAffected(n int) { c.Affected = n }

func (c *Collector) HandleTuple(row []any) { c.Rows = append(c.Rows, row) }

func (c *Collector) HandleEnd() {}

func (c *Collector) HandleError(err error) { c.Err = err }

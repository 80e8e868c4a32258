package reqqueue

import (
	"log/slog"

	"github.com/tuannm99/slotdb/internal/catalog"
	"github.com/tuannm99/slotdb/internal/exec"
	"github.com/tuannm99/slotdb/internal/planner"
	"github.com/tuannm99/slotdb/internal/resultsink"
	"github.com/tuannm99/slotdb/internal/sqlast"
	"github.com/tuannm99/slotdb/internal/sqlparse"
)

// Worker is the single thread that owns the catalog: it pops requests
// off a Queue one at a time and runs them to completion before popping
// the next, so the catalog and every table file see strictly serialized
// access with no further locking.
type Worker struct {
	queue   *Queue
	catalog *catalog.Catalog
}

// NewWorker binds a Worker to queue and cat. Run must be started on its
// own goroutine.
func NewWorker(queue *Queue, cat *catalog.Catalog) *Worker {
	return &Worker{queue: queue, catalog: cat}
}

// Run pops requests until the queue is closed.
func (w *Worker) Run() {
	for {
		req, err := w.queue.Pop()
		if err != nil {
			return
		}
		w.handle(req)
	}
}

func (w *Worker) handle(req *Request) {
	defer req.markDone()

	stmt, err := sqlparse.Parse(req.SQL)
	if err != nil {
		req.Sink.HandleError(err)
		return
	}

	if sel, ok := stmt.(*sqlast.SelectStmt); ok {
		cols, err := resolveColumns(sel, w.catalog)
		if err != nil {
			req.Sink.HandleError(err)
			return
		}
		req.Sink.SetTupleInfo(cols)
	}

	plan, err := planner.Build(stmt, w.catalog)
	if err != nil {
		req.Sink.HandleError(err)
		return
	}

	if err := plan.Open(); err != nil {
		req.Sink.HandleError(err)
		_ = plan.Close()
		return
	}

	for {
		row, ok := plan.Next()
		if !ok {
			break
		}
		req.Sink.HandleTuple(row.Values)
	}

	if err := plan.Err(); err != nil {
		req.Sink.HandleError(err)
		if cerr := plan.Close(); cerr != nil {
			slog.Error("reqqueue: close after error", "sql", req.SQL, "error", cerr)
		}
		return
	}

	if ac, ok := plan.(exec.AffectedCounter); ok {
		req.Sink.SetAffected(ac.Affected())
	}

	if err := plan.Close(); err != nil {
		req.Sink.HandleError(err)
		return
	}
	req.Sink.HandleEnd()
}

func resolveColumns(sel *sqlast.SelectStmt, cat *catalog.Catalog) ([]resultsink.ColumnInfo, error) {
	ot, err := cat.Resolve(sel.Table)
	if err != nil {
		return nil, err
	}

	names := sel.Columns
	if names == nil {
		names = make([]string, len(ot.Schema.Columns))
		for i, c := range ot.Schema.Columns {
			names[i] = c.Name
		}
	}

	cols := make([]resultsink.ColumnInfo, len(names))
	for i, name := range names {
		idx := ot.Schema.IndexOf(name)
		if idx < 0 {
			return nil, &UnknownColumnError{Table: sel.Table, Column: name}
		}
		cols[i] = resultsink.ColumnInfo{Name: name, Kind: ot.Schema.Columns[idx].Kind}
	}
	return cols, nil
}

// UnknownColumnError reports a SELECT list entry that has no matching
// column on the resolved table.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return "reqqueue: unknown column " + e.Column + " on table " + e.Table
}

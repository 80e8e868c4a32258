package wire

import "github.com/tuannm99/slotdb/internal/resultsink"

// ExecuteRequest is a single SQL command request.
type ExecuteRequest struct {
	ID  uint64 `json:"id"`
	SQL string `json:"sql"`
}

// ColumnWire is the wire shape of one resultsink.ColumnInfo.
type ColumnWire struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ExecuteResponse is the response for a request ID: either a completed
// result set (Columns/Rows, possibly empty for DDL/DML) or an Error.
type ExecuteResponse struct {
	ID       uint64       `json:"id"`
	Columns  []ColumnWire `json:"columns,omitempty"`
	Rows     [][]any      `json:"rows,omitempty"`
	RowCount int          `json:"row_count"`
	Error    string       `json:"error,omitempty"`
}

// FromCollector builds the wire response for req id from a drained
// resultsink.Collector.
func FromCollector(id uint64, c *resultsink.Collector) ExecuteResponse {
	if c.Err != nil {
		return ExecuteResponse{ID: id, Error: c.Err.Error()}
	}

	cols := make([]ColumnWire, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = ColumnWire{Name: col.Name, Type: col.Kind.String()}
	}
	return ExecuteResponse{
		ID:       id,
		Columns:  cols,
		Rows:     c.Rows,
		RowCount: len(c.Rows) + c.Affected,
	}
}

package exec

import "github.com/tuannm99/slotdb/internal/storage"

// Delete removes every row its child produces, returning each row as it
// deletes it (the number of rows it yields is the number of rows deleted).
type Delete struct {
	base
	File  *storage.TableFile
	Child Iterator
}

func NewDelete(file *storage.TableFile, child Iterator) *Delete {
	return &Delete{File: file, Child: child}
}

func (d *Delete) Open() error { return d.Child.Open() }

func (d *Delete) Next() (*Row, bool) {
	if d.err != nil {
		return nil, false
	}
	row, ok := d.Child.Next()
	if !ok {
		if err := d.Child.Err(); err != nil {
			return d.fail(err)
		}
		return nil, false
	}
	if err := d.File.DeleteTuple(row.TID); err != nil {
		return d.fail(err)
	}
	return row, true
}

func (d *Delete) Close() error { return d.Child.Close() }

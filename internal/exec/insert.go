package exec

import "github.com/tuannm99/slotdb/internal/storage"

// Insert writes one row of Values to File on its first Next() call, then
// signals end of stream. It yields no rows; callers read TID() for the
// inserted tuple's identity and Affected() for the rows-affected count.
type Insert struct {
	base
	File   *storage.TableFile
	Values []any
	done   bool
	tid    storage.TID
}

func NewInsert(file *storage.TableFile, values []any) *Insert {
	return &Insert{File: file, Values: values}
}

func (i *Insert) Open() error { return nil }

func (i *Insert) Next() (*Row, bool) {
	if i.err != nil || i.done {
		return nil, false
	}
	i.done = true

	tid, err := i.File.Insert(i.Values)
	if err != nil {
		return i.fail(err)
	}
	i.tid = tid
	return nil, false
}

func (i *Insert) Close() error { return nil }

// TID returns the identity of the inserted tuple. Only meaningful after a
// successful Next() call.
func (i *Insert) TID() storage.TID { return i.tid }

// Affected reports 1 once Insert has succeeded, 0 otherwise.
func (i *Insert) Affected() int {
	if i.done && i.err == nil {
		return 1
	}
	return 0
}

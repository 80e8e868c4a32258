// Package exec implements the pull-based iterator protocol that every
// statement compiles down to: open() primes an operator, next() pulls one
// row at a time (nil, false marks end of stream), close() releases any
// pins, and err() exposes a sticky error set once the first failure
// occurs.
package exec

import (
	"github.com/tuannm99/slotdb/internal/storage"
)

// Row is one tuple flowing through an iterator tree, decoded column
// values in schema order plus the tuple identity it came from (needed by
// Delete/Update, which mutate the tuple a child FileScan just produced).
type Row struct {
	Values []any
	TID    storage.TID
}

// Iterator is the pull-based operator contract every node in a plan tree
// implements.
type Iterator interface {
	Open() error
	Next() (*Row, bool)
	Close() error
	Err() error
}

// AffectedCounter is implemented by single-shot operators whose outcome is
// measured in rows affected rather than rows yielded: Insert,
// CheckAndInsert, CreateTable and DropTable all produce no rows from
// Next(), so the Request Serializer reads Affected() once the iterator is
// drained to learn whether (and how many of) its one operation succeeded.
type AffectedCounter interface {
	Affected() int
}

// base is embedded by every leaf/internal operator to provide the sticky
// error field the protocol requires: once err is set, Next must keep
// returning (nil, false).
type base struct {
	err error
}

func (b *base) Err() error { return b.err }

func (b *base) fail(err error) (*Row, bool) {
	if b.err == nil {
		b.err = err
	}
	return nil, false
}

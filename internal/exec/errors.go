package exec

import "errors"

// ErrPrimaryKeyExists is the sticky error CheckAndInsert reports when its
// probe finds an existing row with the same primary key.
var ErrPrimaryKeyExists = errors.New("exec: primary key already exists")

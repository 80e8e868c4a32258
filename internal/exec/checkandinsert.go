package exec

// CheckAndInsert composes a uniqueness probe with an Insert: it drains
// Probe (conventionally Filter(pk==v, FileScan(table))) first, and only
// proceeds to InsertOp if the probe found nothing, turning a plain INSERT
// into one that enforces the primary key.
type CheckAndInsert struct {
	base
	Probe    Iterator
	InsertOp *Insert

	checked bool
	done    bool
}

func NewCheckAndInsert(probe Iterator, insertOp *Insert) *CheckAndInsert {
	return &CheckAndInsert{Probe: probe, InsertOp: insertOp}
}

func (c *CheckAndInsert) Open() error {
	return c.Probe.Open()
}

func (c *CheckAndInsert) Next() (*Row, bool) {
	if c.err != nil || c.done {
		return nil, false
	}

	if !c.checked {
		c.checked = true
		_, found := c.Probe.Next()
		err := c.Probe.Err()
		_ = c.Probe.Close()
		if err != nil {
			c.done = true
			return c.fail(err)
		}
		if found {
			c.done = true
			return c.fail(ErrPrimaryKeyExists)
		}
		if err := c.InsertOp.Open(); err != nil {
			c.done = true
			return c.fail(err)
		}
	}

	c.InsertOp.Next()
	c.done = true
	if err := c.InsertOp.Err(); err != nil {
		return c.fail(err)
	}
	return nil, false
}

func (c *CheckAndInsert) Close() error {
	return c.InsertOp.Close()
}

// Affected reports the rows-affected count of the underlying Insert.
func (c *CheckAndInsert) Affected() int { return c.InsertOp.Affected() }

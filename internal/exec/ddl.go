package exec

import (
	"github.com/tuannm99/slotdb/internal/catalog"
	"github.com/tuannm99/slotdb/internal/record"
)

// CreateTable registers a new table with Catalog on its first Next(). It
// yields no rows; Affected() reports whether it succeeded.
type CreateTable struct {
	base
	Catalog *catalog.Catalog
	Name    string
	Columns []record.Column
	done    bool
}

func NewCreateTable(cat *catalog.Catalog, name string, cols []record.Column) *CreateTable {
	return &CreateTable{Catalog: cat, Name: name, Columns: cols}
}

func (c *CreateTable) Open() error { return nil }

func (c *CreateTable) Next() (*Row, bool) {
	if c.err != nil || c.done {
		return nil, false
	}
	c.done = true
	if _, err := c.Catalog.CreateTable(c.Name, c.Columns); err != nil {
		return c.fail(err)
	}
	return nil, false
}

func (c *CreateTable) Close() error { return nil }

// Affected reports 1 once CreateTable has succeeded, 0 otherwise.
func (c *CreateTable) Affected() int {
	if c.done && c.err == nil {
		return 1
	}
	return 0
}

// DropTable removes a table from Catalog on its first Next(). It yields no
// rows; Affected() reports whether it succeeded.
type DropTable struct {
	base
	Catalog *catalog.Catalog
	Name    string
	done    bool
}

func NewDropTable(cat *catalog.Catalog, name string) *DropTable {
	return &DropTable{Catalog: cat, Name: name}
}

func (d *DropTable) Open() error { return nil }

func (d *DropTable) Next() (*Row, bool) {
	if d.err != nil || d.done {
		return nil, false
	}
	d.done = true
	if err := d.Catalog.DropTable(d.Name); err != nil {
		return d.fail(err)
	}
	return nil, false
}

func (d *DropTable) Close() error { return nil }

// Affected reports 1 once DropTable has succeeded, 0 otherwise.
func (d *DropTable) Affected() int {
	if d.done && d.err == nil {
		return 1
	}
	return 0
}

// Package catalog is the table catalog: a JSON-persisted registry mapping
// table name to column layout, plus the open TableFile backing each one.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/tuannm99/slotdb/internal/pagepool"
	"github.com/tuannm99/slotdb/internal/record"
	"github.com/tuannm99/slotdb/internal/storage"
)

var (
	ErrTableExists   = errors.New("catalog: table already exists")
	ErrNoSuchTable   = errors.New("catalog: no such table")
	ErrBadAttrType   = errors.New("catalog: unrecognized attr_type")
	ErrBadCharLength = errors.New("catalog: Char attr_type needs a numeric len")
)

// AttrType is the JSON shape of a column's storage kind.
type AttrType struct {
	Type string `json:"type"`
	Len  string `json:"len,omitempty"`
}

// AttrDesc is the JSON shape of one column, matching the catalog's
// on-disk schema: name, attr_type, primary, nullable.
type AttrDesc struct {
	Name     string   `json:"name"`
	AttrType AttrType `json:"attr_type"`
	Primary  bool     `json:"primary"`
	Nullable bool     `json:"nullable"`
}

// TableMeta is the persisted description of one table.
type TableMeta struct {
	Name     string     `json:"name"`
	AttrList []AttrDesc `json:"attr_list"`
}

// OpenTable pairs a table's derived schema with its open on-disk file.
type OpenTable struct {
	Schema *record.Schema
	File   *storage.TableFile
}

// Catalog owns the single JSON metadata file enumerating every table, and
// the TableFile for each one currently open.
type Catalog struct {
	mu       sync.RWMutex
	metaDir  string
	fileDir  string
	pageSize int
	pool     *pagepool.Pool

	tables map[string]*OpenTable
}

// Open loads an existing catalog.json from metaDir (if any), opening every
// listed table's file from fileDir, or starts a fresh empty catalog.
func Open(metaDir, fileDir string, pageSize int, pool *pagepool.Pool) (*Catalog, error) {
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(fileDir, 0o755); err != nil {
		return nil, err
	}

	c := &Catalog{
		metaDir:  metaDir,
		fileDir:  fileDir,
		pageSize: pageSize,
		pool:     pool,
		tables:   make(map[string]*OpenTable),
	}

	metas, err := c.readMetaFile()
	if err != nil {
		return nil, err
	}
	for name, meta := range metas {
		cols, err := attrListToColumns(meta.AttrList)
		if err != nil {
			return nil, fmt.Errorf("catalog: table %q: %w", name, err)
		}
		schema, err := record.NewSchema(name, cols)
		if err != nil {
			return nil, fmt.Errorf("catalog: table %q: %w", name, err)
		}
		tf, err := storage.OpenTableFile(c.tableFilePath(name), schema, pageSize, pool, pagepool.FileID(name))
		if err != nil {
			return nil, fmt.Errorf("catalog: table %q: %w", name, err)
		}
		c.tables[name] = &OpenTable{Schema: schema, File: tf}
		slog.Debug("catalog: opened table", "table", name, "pages", tf.PageCount())
	}

	return c, nil
}

func (c *Catalog) metaFilePath() string {
	return filepath.Join(c.metaDir, "catalog.json")
}

func (c *Catalog) tableFilePath(name string) string {
	return filepath.Join(c.fileDir, name+".tbl")
}

func (c *Catalog) readMetaFile() (map[string]TableMeta, error) {
	data, err := os.ReadFile(c.metaFilePath())
	if errors.Is(err, os.ErrNotExist) {
		return map[string]TableMeta{}, nil
	}
	if err != nil {
		return nil, err
	}
	var metas map[string]TableMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

// writeMetaFileLocked re-derives the full catalog.json from c.tables.
// c.mu must be held.
func (c *Catalog) writeMetaFileLocked() error {
	metas := make(map[string]TableMeta, len(c.tables))
	for name, ot := range c.tables {
		metas[name] = TableMeta{
			Name:     name,
			AttrList: columnsToAttrList(ot.Schema.Columns),
		}
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.metaFilePath(), data, 0o644)
}

// CreateTable derives a schema from cols, opens its backing file, and
// persists the updated catalog.
func (c *Catalog) CreateTable(name string, cols []record.Column) (*OpenTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, name)
	}

	schema, err := record.NewSchema(name, cols)
	if err != nil {
		return nil, err
	}
	tf, err := storage.OpenTableFile(c.tableFilePath(name), schema, c.pageSize, c.pool, pagepool.FileID(name))
	if err != nil {
		return nil, err
	}

	ot := &OpenTable{Schema: schema, File: tf}
	c.tables[name] = ot
	if err := c.writeMetaFileLocked(); err != nil {
		delete(c.tables, name)
		return nil, err
	}
	return ot, nil
}

// DropTable removes a table's file and metadata entry.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ot, ok := c.tables[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchTable, name)
	}
	if err := ot.File.Drop(c.tableFilePath(name)); err != nil {
		return err
	}
	delete(c.tables, name)
	return c.writeMetaFileLocked()
}

// Resolve returns the open table named name.
func (c *Catalog) Resolve(name string) (*OpenTable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ot, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchTable, name)
	}
	return ot, nil
}

// Close flushes and closes every open table file.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, ot := range c.tables {
		if err := ot.File.Close(); err != nil {
			return fmt.Errorf("catalog: close table %q: %w", name, err)
		}
	}
	return nil
}

func columnsToAttrList(cols []record.Column) []AttrDesc {
	out := make([]AttrDesc, len(cols))
	for i, col := range cols {
		at := AttrType{Type: col.Kind.String()}
		if col.Kind == record.KindChar {
			at.Len = strconv.Itoa(col.Len)
		}
		out[i] = AttrDesc{
			Name:     col.Name,
			AttrType: at,
			Primary:  col.Primary,
			Nullable: col.Nullable,
		}
	}
	return out
}

func attrListToColumns(attrs []AttrDesc) ([]record.Column, error) {
	out := make([]record.Column, len(attrs))
	for i, a := range attrs {
		col := record.Column{Name: a.Name, Primary: a.Primary, Nullable: a.Nullable}
		switch a.AttrType.Type {
		case "Int":
			col.Kind = record.KindInt
		case "Float":
			col.Kind = record.KindFloat
		case "Char":
			col.Kind = record.KindChar
			n, err := strconv.Atoi(a.AttrType.Len)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: %q", ErrBadCharLength, a.AttrType.Len)
			}
			col.Len = n
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadAttrType, a.AttrType.Type)
		}
		out[i] = col
	}
	return out, nil
}

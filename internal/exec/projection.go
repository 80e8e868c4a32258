package exec

// Projection narrows each row from Child down to the columns named by
// ColIdx, in that order.
type Projection struct {
	base
	ColIdx []int
	Child  Iterator
}

func NewProjection(colIdx []int, child Iterator) *Projection {
	return &Projection{ColIdx: colIdx, Child: child}
}

func (p *Projection) Open() error { return p.Child.Open() }

func (p *Projection) Next() (*Row, bool) {
	if p.err != nil {
		return nil, false
	}
	row, ok := p.Child.Next()
	if !ok {
		if err := p.Child.Err(); err != nil {
			return p.fail(err)
		}
		return nil, false
	}
	out := make([]any, len(p.ColIdx))
	for i, ci := range p.ColIdx {
		out[i] = row.Values[ci]
	}
	return &Row{Values: out, TID: row.TID}, true
}

func (p *Projection) Close() error { return p.Child.Close() }

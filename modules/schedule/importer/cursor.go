package importer

// Cursor is a single read position over an ordered row sequence. Every move
// bumps the generation so per-row memos can tell they are stale.
type Cursor struct {
	rows []Row
	pos  int
	gen  uint64
}

func (c *Cursor) SetRows(rows []Row) {
	c.rows = rows
	c.pos = 0
	c.gen++
}

func (c *Cursor) Len() int      { return len(c.rows) }
func (c *Cursor) Position() int { return c.pos }
func (c *Cursor) Rows() []Row   { return c.rows }

func (c *Cursor) First() (Row, bool) {
	c.pos = 0
	c.gen++
	return c.Current()
}

func (c *Cursor) Next() (Row, bool) {
	if c.pos < len(c.rows) {
		c.pos++
	}
	c.gen++
	return c.Current()
}

func (c *Cursor) Previous() (Row, bool) {
	if c.pos >= 0 {
		c.pos--
	}
	c.gen++
	return c.Current()
}

func (c *Cursor) Current() (Row, bool) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil, false
	}
	return c.rows[c.pos], true
}

// Field returns one value of the current row, nil when absent.
func (c *Cursor) Field(f Field) any {
	row, ok := c.Current()
	if !ok {
		return nil
	}
	return row[f]
}

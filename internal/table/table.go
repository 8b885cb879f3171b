package table

// Row is one record of a dataset, keyed by header name. Missing and blank
// cells are both the empty string.
type Row map[string]string

// Dataset is an ordered table: headers plus rows. Row order is significant
// and must be preserved by every transformation that does not sort
// explicitly.
type Dataset struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Get returns the value of a cell, or "" when the column is absent.
func (r Row) Get(header string) string {
	if r == nil {
		return ""
	}
	return r[header]
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Union merges two rows into a new row. Values from override win on key
// collision.
func Union(base, override Row) Row {
	out := make(Row, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether the dataset has no rows.
func (d Dataset) IsEmpty() bool {
	return len(d.Rows) == 0
}

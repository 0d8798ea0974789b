package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// header is shared by every Record of a Dataset.
type header struct {
	names []string
	index map[string]int
}

func newHeader(names []string) (*header, error) {
	h := &header{names: make([]string, len(names)), index: make(map[string]int, len(names))}
	for i, n := range names {
		if _, dup := h.index[n]; dup {
			return nil, fmt.Errorf("duplicate field name %q", n)
		}
		h.names[i] = n
		h.index[n] = i
	}
	return h, nil
}

// Record is one respondent's answers, ordered by the dataset header.
// Records are immutable: accessors return copies.
type Record struct {
	h      *header
	values []Value
}

// Get returns the value of a field, or Missing when the field is absent.
func (r Record) Get(field string) Value {
	if r.h == nil {
		return Missing()
	}
	i, ok := r.h.index[field]
	if !ok || i >= len(r.values) {
		return Missing()
	}
	return r.values[i]
}

// Has reports whether the record's header declares the field.
func (r Record) Has(field string) bool {
	if r.h == nil {
		return false
	}
	_, ok := r.h.index[field]
	return ok
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// Fields returns the field names in header order.
func (r Record) Fields() []string {
	if r.h == nil {
		return nil
	}
	out := make([]string, len(r.h.names))
	copy(out, r.h.names)
	return out
}

// Values returns the values in header order.
func (r Record) Values() []Value {
	out := make([]Value, len(r.values))
	copy(out, r.values)
	return out
}

// Each visits fields in header order.
func (r Record) Each(fn func(field string, v Value)) {
	if r.h == nil {
		return
	}
	for i, n := range r.h.names {
		fn(n, r.values[i])
	}
}

// MarshalJSON keeps header order, which a plain map would lose.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	first := true
	var err error
	r.Each(func(field string, v Value) {
		if err != nil {
			return
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		var kb, vb []byte
		if kb, err = json.Marshal(field); err != nil {
			return
		}
		if vb, err = v.MarshalJSON(); err != nil {
			return
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	})
	if err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Dataset is an ordered collection of Records sharing one header.
type Dataset struct {
	Name string
	h    *header
	rows []Record
}

// NewDataset creates an empty dataset with the given field names.
func NewDataset(name string, fields []string) (*Dataset, error) {
	h, err := newHeader(fields)
	if err != nil {
		return nil, err
	}
	return &Dataset{Name: name, h: h}, nil
}

// Append adds a row. Short rows are padded with missing values; rows longer
// than the header are rejected.
func (d *Dataset) Append(values ...Value) error {
	n := len(d.h.names)
	if len(values) > n {
		return fmt.Errorf("row %d has %d values, header has %d fields", len(d.rows)+1, len(values), n)
	}
	row := make([]Value, n)
	copy(row, values)
	d.rows = append(d.rows, Record{h: d.h, values: row})
	return nil
}

// Fields returns the header in order.
func (d *Dataset) Fields() []string {
	out := make([]string, len(d.h.names))
	copy(out, d.h.names)
	return out
}

// HasField reports whether the header declares a field.
func (d *Dataset) HasField(field string) bool {
	_, ok := d.h.index[field]
	return ok
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.rows) }

// Record returns the i-th record.
func (d *Dataset) Record(i int) Record { return d.rows[i] }

// Records returns the records in load order. The slice is a copy; the records
// themselves are immutable.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.rows))
	copy(out, d.rows)
	return out
}

// Column returns the values of one field across all records.
func (d *Dataset) Column(field string) []Value {
	out := make([]Value, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Get(field)
	}
	return out
}

package stats

import (
	"time"

	"statkit/domain/core"
)

// Result is the normalized, immutable output of an analysis. All fields are
// private and every getter hands out a copy.
type Result struct {
	id        core.ID
	kind      Kind
	createdAt time.Time
	metrics   []Metric
	groups    []string
	terms     []string
	postHoc   *PostHoc
	table     *Table
	vectors   []Vector
	source    []string
}

// Builder assembles a Result. A Builder must not be reused after Build.
type Builder struct {
	r Result
}

// NewBuilder starts a Result of the given kind
func NewBuilder(kind Kind) *Builder {
	return &Builder{r: Result{kind: kind}}
}

// Metric appends a named scalar. Setting the same name twice overwrites it in place.
func (b *Builder) Metric(name string, value float64) *Builder {
	for i := range b.r.metrics {
		if b.r.metrics[i].Name == name {
			b.r.metrics[i].Value = value
			return b
		}
	}
	b.r.metrics = append(b.r.metrics, Metric{Name: name, Value: value})
	return b
}

// Groups sets the ordered group labels
func (b *Builder) Groups(groups []string) *Builder {
	b.r.groups = cloneStrings(groups)
	return b
}

// Terms sets the ordered model term names (regression)
func (b *Builder) Terms(terms []string) *Builder {
	b.r.terms = cloneStrings(terms)
	return b
}

// PostHoc attaches a pairwise comparison block
func (b *Builder) PostHoc(method string, comparisons []Comparison) *Builder {
	b.r.postHoc = &PostHoc{Method: method, Comparisons: cloneComparisons(comparisons)}
	return b
}

// Table attaches a labeled table
func (b *Builder) Table(t Table) *Builder {
	c := cloneTable(t)
	b.r.table = &c
	return b
}

// Vector attaches a named numeric sequence
func (b *Builder) Vector(name string, values []float64) *Builder {
	b.r.vectors = append(b.r.vectors, Vector{Name: name, Values: cloneFloats(values)})
	return b
}

// Source retains the labels the result was computed from
func (b *Builder) Source(labels []string) *Builder {
	b.r.source = cloneStrings(labels)
	return b
}

// Build stamps the Result with a fresh ID and creation time
func (b *Builder) Build() *Result {
	r := b.r
	r.id = core.NewID()
	r.createdAt = time.Now().UTC()
	return &r
}

// ID returns the result identifier
func (r *Result) ID() core.ID { return r.id }

// Kind returns the analysis kind
func (r *Result) Kind() Kind { return r.kind }

// CreatedAt returns when the result was built
func (r *Result) CreatedAt() time.Time { return r.createdAt }

// Metric looks up a scalar by its stable key
func (r *Result) Metric(name string) (float64, bool) {
	for _, m := range r.metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Metrics returns all scalars in insertion order
func (r *Result) Metrics() []Metric {
	out := make([]Metric, len(r.metrics))
	copy(out, r.metrics)
	return out
}

// Groups returns the ordered group labels
func (r *Result) Groups() []string { return cloneStrings(r.groups) }

// Terms returns the ordered model term names
func (r *Result) Terms() []string { return cloneStrings(r.terms) }

// PostHoc returns the pairwise block, or nil
func (r *Result) PostHoc() *PostHoc {
	if r.postHoc == nil {
		return nil
	}
	return &PostHoc{Method: r.postHoc.Method, Comparisons: cloneComparisons(r.postHoc.Comparisons)}
}

// Table returns the labeled table, if any
func (r *Result) Table() (Table, bool) {
	if r.table == nil {
		return Table{}, false
	}
	return cloneTable(*r.table), true
}

// Vector looks up a named sequence
func (r *Result) Vector(name string) ([]float64, bool) {
	for _, v := range r.vectors {
		if v.Name == name {
			return cloneFloats(v.Values), true
		}
	}
	return nil, false
}

// Source returns the retained input labels
func (r *Result) Source() []string { return cloneStrings(r.source) }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

func cloneComparisons(in []Comparison) []Comparison {
	out := make([]Comparison, len(in))
	copy(out, in)
	return out
}

func cloneTable(t Table) Table {
	values := make([][]float64, len(t.Values))
	for i, col := range t.Values {
		values[i] = cloneFloats(col)
	}
	return Table{
		Index:   cloneStrings(t.Index),
		Columns: cloneStrings(t.Columns),
		Values:  values,
	}
}

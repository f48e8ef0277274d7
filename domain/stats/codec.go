package stats

import (
	"encoding/json"
	"time"

	"statkit/domain/core"
)

type metricJSON struct {
	Name  string `json:"name"`
	Value Float  `json:"value"`
}

type comparisonJSON struct {
	Group1    string `json:"group1"`
	Group2    string `json:"group2"`
	Statistic Float  `json:"statistic"`
	PValue    Float  `json:"p_value"`
	MeanDiff  Float  `json:"mean_diff,omitempty"`
	Lower     Float  `json:"lower,omitempty"`
	Upper     Float  `json:"upper,omitempty"`
	Reject    bool   `json:"reject,omitempty"`
}

type postHocJSON struct {
	Method      string           `json:"method"`
	Comparisons []comparisonJSON `json:"comparisons"`
}

type tableJSON struct {
	Index   []string  `json:"index"`
	Columns []string  `json:"columns"`
	Values  [][]Float `json:"values"`
}

type vectorJSON struct {
	Name   string  `json:"name"`
	Values []Float `json:"values"`
}

type resultJSON struct {
	ID        core.ID      `json:"id"`
	Kind      Kind         `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
	Metrics   []metricJSON `json:"metrics"`
	Groups    []string     `json:"groups,omitempty"`
	Terms     []string     `json:"terms,omitempty"`
	PostHoc   *postHocJSON `json:"post_hoc,omitempty"`
	Table     *tableJSON   `json:"table,omitempty"`
	Vectors   []vectorJSON `json:"vectors,omitempty"`
	Source    []string     `json:"source,omitempty"`
}

// MarshalJSON encodes the full result, including retained source values
func (r *Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		ID:        r.id,
		Kind:      r.kind,
		CreatedAt: r.createdAt,
		Metrics:   make([]metricJSON, len(r.metrics)),
		Groups:    r.groups,
		Terms:     r.terms,
		Source:    r.source,
	}
	for i, m := range r.metrics {
		out.Metrics[i] = metricJSON{Name: m.Name, Value: Float(m.Value)}
	}
	if r.postHoc != nil {
		ph := &postHocJSON{Method: r.postHoc.Method, Comparisons: make([]comparisonJSON, len(r.postHoc.Comparisons))}
		for i, c := range r.postHoc.Comparisons {
			ph.Comparisons[i] = comparisonJSON{
				Group1:    c.Group1,
				Group2:    c.Group2,
				Statistic: Float(c.Statistic),
				PValue:    Float(c.PValue),
				MeanDiff:  Float(c.MeanDiff),
				Lower:     Float(c.Lower),
				Upper:     Float(c.Upper),
				Reject:    c.Reject,
			}
		}
		out.PostHoc = ph
	}
	if r.table != nil {
		tj := &tableJSON{Index: r.table.Index, Columns: r.table.Columns, Values: make([][]Float, len(r.table.Values))}
		for i, col := range r.table.Values {
			tj.Values[i] = toFloats(col)
		}
		out.Table = tj
	}
	for _, v := range r.vectors {
		out.Vectors = append(out.Vectors, vectorJSON{Name: v.Name, Values: toFloats(v.Values)})
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a result previously encoded with MarshalJSON
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	restored := Result{
		id:        in.ID,
		kind:      in.Kind,
		createdAt: in.CreatedAt,
		groups:    in.Groups,
		terms:     in.Terms,
		source:    in.Source,
	}
	for _, m := range in.Metrics {
		restored.metrics = append(restored.metrics, Metric{Name: m.Name, Value: float64(m.Value)})
	}
	if in.PostHoc != nil {
		ph := &PostHoc{Method: in.PostHoc.Method, Comparisons: make([]Comparison, len(in.PostHoc.Comparisons))}
		for i, c := range in.PostHoc.Comparisons {
			ph.Comparisons[i] = Comparison{
				Group1:    c.Group1,
				Group2:    c.Group2,
				Statistic: float64(c.Statistic),
				PValue:    float64(c.PValue),
				MeanDiff:  float64(c.MeanDiff),
				Lower:     float64(c.Lower),
				Upper:     float64(c.Upper),
				Reject:    c.Reject,
			}
		}
		restored.postHoc = ph
	}
	if in.Table != nil {
		t := &Table{Index: in.Table.Index, Columns: in.Table.Columns, Values: make([][]float64, len(in.Table.Values))}
		for i, col := range in.Table.Values {
			t.Values[i] = fromFloats(col)
		}
		restored.table = t
	}
	for _, v := range in.Vectors {
		restored.vectors = append(restored.vectors, Vector{Name: v.Name, Values: fromFloats(v.Values)})
	}

	*r = restored
	return nil
}

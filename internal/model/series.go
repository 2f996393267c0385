package model

import "fmt"

// Series is a node in a report tree: its own values plus named children.
type Series struct {
	Values []float64
	Series map[string]*Series
}

// NewSeries returns a Series with empty values and no children.
func NewSeries() *Series {
	return &Series{Values: []float64{}, Series: map[string]*Series{}}
}

// Child returns the named child, or nil.
func (s *Series) Child(name string) *Series {
	if s == nil {
		return nil
	}
	return s.Series[name]
}

// UnmarshalJSON decodes a series tree; missing members default to empty.
func (s *Series) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding series: %w", err)
	}
	out := NewSeries()
	if err := f.getAll(map[string]any{"Values": &out.Values, "Series": &out.Series}); err != nil {
		return fmt.Errorf("decoding series: %w", err)
	}
	if out.Values == nil {
		out.Values = []float64{}
	}
	if out.Series == nil {
		out.Series = map[string]*Series{}
	}
	*s = *out
	return nil
}

// Tabulation is a computed report: column labels plus a forest of series.
type Tabulation struct {
	ReportId int64
	Title    string
	Subtitle string
	Units    string
	Labels   []string
	Series   map[string]*Series
}

// Root returns the implicit series whose children are the top-level series.
func (t *Tabulation) Root() *Series {
	return &Series{Values: []float64{}, Series: t.Series}
}

func (t *Tabulation) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data)
	if err != nil {
		return fmt.Errorf("decoding tabulation: %w", err)
	}
	out := Tabulation{ReportId: -1}
	err = f.getAll(map[string]any{
		"ReportId": &out.ReportId,
		"Title":    &out.Title,
		"Subtitle": &out.Subtitle,
		"Units":    &out.Units,
		"Labels":   &out.Labels,
		"Series":   &out.Series,
	})
	if err != nil {
		return fmt.Errorf("decoding tabulation: %w", err)
	}
	if out.Labels == nil {
		out.Labels = []string{}
	}
	if out.Series == nil {
		out.Series = map[string]*Series{}
	}
	*t = out
	return nil
}

package model

// Report summarizes the content of a loaded data set, for inspection.
type Report struct {
	Source           string       `json:"source"`
	NumberOfRecords  int          `json:"records"`
	Areas            []string     `json:"areas"`
	Fields           []FieldRange `json:"fields"`
	PctNotApplicable []string     `json:"pct_change_not_applicable,omitempty"`
}

// FieldRange holds the observed range of a numeric field.
type FieldRange struct {
	Field   Field   `json:"field"`
	Count   int     `json:"count"`
	Min     float64 `json:"min_value"`
	Max     float64 `json:"max_value"`
	MinArea string  `json:"min_area"`
	MaxArea string  `json:"max_area"`
}

// Summarize produces a [Report] over the records.
func Summarize(source string, records []Record) Report {
	r := Report{
		Source:          source,
		NumberOfRecords: len(records),
		Areas:           make([]string, 0, len(records)),
	}

	for _, rec := range records {
		r.Areas = append(r.Areas, rec.AreaTitle)
		if !rec.PctChangeApplicable() {
			r.PctNotApplicable = append(r.PctNotApplicable, rec.AreaTitle)
		}
	}

	for _, f := range AllFields() {
		if !f.IsNumeric() {
			continue
		}

		var (
			rng  = FieldRange{Field: f}
			seen bool
		)

		for _, rec := range records {
			v, _ := rec.Number(f)
			if f == FieldWagesPctChange && !rec.PctChangeApplicable() {
				continue
			}

			rng.Count++
			if !seen || v < rng.Min {
				rng.Min = v
				rng.MinArea = rec.AreaTitle
			}
			if !seen || v > rng.Max {
				rng.Max = v
				rng.MaxArea = rec.AreaTitle
			}
			seen = true
		}

		r.Fields = append(r.Fields, rng)
	}

	return r
}

package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Transform parses raw records into typed records and computes the derived fields.
//
// Records keep their source order: nothing is filtered or reordered.
func Transform(raws []RawRecord) ([]Record, error) {
	records := make([]Record, 0, len(raws))

	for i, raw := range raws {
		rec, err := parseRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}

		records = append(records, rec.Derive())
	}

	return records, nil
}

func parseRecord(raw RawRecord) (rec Record, err error) {
	title, ok := raw[FieldAreaTitle.String()]
	if !ok {
		return rec, fmt.Errorf("%w: %s", ErrMissingColumn, FieldAreaTitle)
	}
	rec.AreaTitle = strings.TrimSpace(title)

	if rec.Employment1990, err = parseInt(raw, FieldEmployment1990); err != nil {
		return rec, err
	}

	if rec.Employment2015, err = parseInt(raw, FieldEmployment2015); err != nil {
		return rec, err
	}

	if rec.Wages1990, err = parseFloat(raw, FieldWages1990); err != nil {
		return rec, err
	}

	if rec.Wages2015, err = parseFloat(raw, FieldWages2015); err != nil {
		return rec, err
	}

	return rec, nil
}

// numeric strips blanks and thousands separators. An empty cell counts as zero.
func numeric(raw RawRecord, f Field) (string, error) {
	v, ok := raw[f.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingColumn, f)
	}

	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return "0", nil
	}

	return v, nil
}

func parseInt(raw RawRecord, f Field) (int64, error) {
	v, err := numeric(raw, f)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return n, nil
	}

	// some sources export counts as "120.0"
	x, ferr := strconv.ParseFloat(v, 64)
	if ferr != nil || !finite(x) || x != float64(int64(x)) {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedValue, f, raw[f.String()])
	}

	return int64(x), nil
}

func parseFloat(raw RawRecord, f Field) (float64, error) {
	v, err := numeric(raw, f)
	if err != nil {
		return 0, err
	}

	x, err := strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64)
	if err != nil || !finite(x) {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedValue, f, raw[f.String()])
	}

	return x, nil
}

// finite rejects the NaN and Inf spellings that ParseFloat accepts.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// MarshalJSON encodes the record, with a null percent change when it is not applicable.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := struct {
		plain

		WagesPctChange *float64 `json:"wages_pct_change"`
	}{
		plain: plain(r),
	}

	if r.PctChangeApplicable() {
		pct := r.WagesPctChange
		out.WagesPctChange = &pct
	}

	return json.Marshal(out)
}

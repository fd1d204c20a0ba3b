package model

// Record is one decoded item of a collection. The dashboard treats it as
// opaque apart from the handful of fields used for sorting and display.
type Record map[string]any

// Str returns the string value of field, or "" when it is missing or not a string.
func (r Record) Str(field string) string {
	if r == nil {
		return ""
	}
	s, _ := r[field].(string)
	return s
}

// Num returns the numeric value of field, or 0 when it is missing or not a number.
func (r Record) Num(field string) float64 {
	if r == nil {
		return 0
	}
	switch v := r[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// List returns the nested records stored under field. Non-object elements
// are skipped. A missing or non-array field yields nil.
func (r Record) List(field string) []Record {
	if r == nil {
		return nil
	}
	if typed, ok := r[field].([]Record); ok {
		return typed
	}
	raw, ok := r[field].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, v := range raw {
		switch m := v.(type) {
		case map[string]any:
			out = append(out, Record(m))
		case Record:
			out = append(out, m)
		}
	}
	return out
}

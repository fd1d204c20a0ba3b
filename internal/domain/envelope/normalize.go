// Package envelope unwraps the two list shapes returned by the fitness API.
//
// A collection arrives either as a bare JSON array of records or as a
// paginated object {"count": N, "results": [...]}. Both normalize to a Page.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/octofit/internal/domain/model"
)

// Page is a normalized slice of a collection.
type Page struct {
	Items      []model.Record
	TotalCount int
}

type paginated struct {
	Count   *int            `json:"count"`
	Results json.RawMessage `json:"results"`
}

// Normalize decodes body and unwraps it into a Page. A bare array yields
// TotalCount = len(items); a paginated object yields its count, falling
// back to len(results) when count is absent.
func Normalize(body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Page{}, fmt.Errorf("%w: empty body", ErrUndecodable)
	}
	if !json.Valid(trimmed) {
		return Page{}, ErrUndecodable
	}

	switch trimmed[0] {
	case '[':
		items, err := decodeItems(trimmed)
		if err != nil {
			return Page{}, err
		}
		return Page{Items: items, TotalCount: len(items)}, nil
	case '{':
		var env paginated
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Page{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(env.Results) == 0 {
			return Page{}, fmt.Errorf("%w: object without results", ErrMalformed)
		}
		items, err := decodeItems(env.Results)
		if err != nil {
			return Page{}, err
		}
		total := len(items)
		if env.Count != nil {
			if *env.Count < 0 {
				return Page{}, fmt.Errorf("%w: negative count %d", ErrMalformed, *env.Count)
			}
			total = *env.Count
		}
		return Page{Items: items, TotalCount: total}, nil
	default:
		return Page{}, fmt.Errorf("%w: neither an array nor an object", ErrMalformed)
	}
}

func decodeItems(raw json.RawMessage) ([]model.Record, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: results is not an array", ErrMalformed)
	}
	items := make([]model.Record, 0, len(elems))
	for i, elem := range elems {
		var rec model.Record
		if err := json.Unmarshal(elem, &rec); err != nil || rec == nil {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrMalformed, i)
		}
		items = append(items, rec)
	}
	return items, nil
}

package hoard

import (
	"encoding/json"
	"strconv"
)

// Candidate is one selectable item, typically a routable model from an
// upstream catalog. IDs are unique within a Router.
type Candidate struct {
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata"`
}

// Stats tracks observed routing performance for one candidate.
type Stats struct {
	Pulls     int     `json:"pulls"`
	RewardSum float64 `json:"reward_sum"`
}

// MeanReward returns the average observed reward, or 0 before any pull.
func (s Stats) MeanReward() float64 {
	if s.Pulls == 0 {
		return 0
	}
	return s.RewardSum / float64(s.Pulls)
}

// NormalizeCandidates converts raw upstream descriptors into Candidates,
// keeping only those whose pricing marks them free. Descriptors may be
// mappings or typed values; both shapes reduce to a field mapping before
// inspection, so the rest of the library never sees dynamic shapes.
func NormalizeCandidates(descriptors []any) []Candidate {
	candidates := make([]Candidate, 0, len(descriptors))
	for _, d := range descriptors {
		c, ok := normalizeCandidate(d)
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func normalizeCandidate(descriptor any) (Candidate, bool) {
	fields, ok := asMapping(descriptor)
	if !ok {
		return Candidate{}, false
	}

	id, _ := fields["id"].(string)
	if id == "" {
		return Candidate{}, false
	}
	if !isFree(fields["pricing"]) {
		return Candidate{}, false
	}

	c := Candidate{ID: id}
	if meta, ok := fields["metadata"].(map[string]any); ok {
		c.Metadata = meta
	}
	return c, true
}

// isFree reports whether pricing metadata resolves both a prompt and a
// completion price to numeric values that are exactly zero. Missing,
// non-numeric, or non-zero prices exclude the candidate.
func isFree(pricing any) bool {
	fields, ok := asMapping(pricing)
	if !ok {
		return false
	}

	prompt, ok := priceValue(fields["prompt"])
	if !ok {
		return false
	}
	completion, ok := priceValue(fields["completion"])
	if !ok {
		return false
	}

	return prompt == 0 && completion == 0
}

// asMapping reduces a mapping or a typed value to its field mapping.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return m, true
	}

	// Typed descriptors reduce to their field mapping through JSON.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// priceValue coerces a price field to a float. Upstream catalogs encode
// prices as numbers or numeric strings; anything else is not a price.
func priceValue(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, true
	case int:
		return float64(p), true
	case json.Number:
		f, err := p.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(p, 64)
		return f, err == nil
	}
	return 0, false
}

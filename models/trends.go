package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CountEntry is one key of an OrderedCounts.
type CountEntry struct {
	Key   string
	Count int
}

// OrderedCounts is a key->count mapping that keeps its entry order when
// encoded as a JSON object.
type OrderedCounts []CountEntry

// Get returns the count for key.
func (o OrderedCounts) Get(key string) (int, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Count, true
		}
	}
	return 0, false
}

// Keys returns the keys in order.
func (o OrderedCounts) Keys() []string {
	keys := make([]string, len(o))
	for i, e := range o {
		keys[i] = e.Key
	}
	return keys
}

func (o OrderedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *OrderedCounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ordered counts: expected object, got %v", tok)
	}
	out := OrderedCounts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ordered counts: expected key, got %v", tok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("ordered counts: value for %q: %w", key, err)
		}
		out = append(out, CountEntry{Key: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// TrendSummary is the per-period rollup served to dashboards.
type TrendSummary struct {
	TotalInteractions int           `json:"total_interactions"`
	UniqueUserCount   int           `json:"unique_users"`
	DailyActivity     OrderedCounts `json:"daily_activity"`
	TopActions        OrderedCounts `json:"top_actions"`
	TopPages          OrderedCounts `json:"top_pages"`
}

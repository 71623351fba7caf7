package project

import "encoding/json"

// CounterCount is the fixed number of counters on every project.
const CounterCount = 2

// Counter is a labeled, non-negative tally such as rows or rounds.
type Counter struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// UnmarshalJSON decodes a counter, storing negative values as 0 so snapshots
// read back from a slot hold the same guarantee as ones built in memory.
func (c *Counter) UnmarshalJSON(data []byte) error {
	type plain Counter
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw.Value = max(0, raw.Value)
	*c = Counter(raw)
	return nil
}

// Project is one knitting or crochet work in progress with two counters.
type Project struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Color    string                `json:"color"`
	Counters [CounterCount]Counter `json:"counters"`
}

// Color is a selectable project color. Value is passed through unvalidated.
type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Package metrics exposes counters for the durable store and the project
// registry. Components take a Recorder and default to NoopRecorder, so
// metrics stay optional.
package metrics

import "time"

// LoadOutcome describes how a store obtained its initial value.
type LoadOutcome string

const (
	LoadStored  LoadOutcome = "stored"  // decoded from the slot
	LoadMissing LoadOutcome = "missing" // slot absent, default used
	LoadCorrupt LoadOutcome = "corrupt" // slot present but undecodable, default used
	LoadFailed  LoadOutcome = "failed"  // backend read error, default used
)

// Recorder receives store and registry observations.
type Recorder interface {
	IncSlotLoad(key string, outcome LoadOutcome)
	ObserveSlotWrite(key string, d time.Duration, success bool)
	IncMutation(op string)
	SetProjectCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncSlotLoad(string, LoadOutcome) {}
func (NoopRecorder) ObserveSlotWrite(string, time.Duration, bool) {}
func (NoopRecorder) IncMutation(string) {}
func (NoopRecorder) SetProjectCount(int) {}

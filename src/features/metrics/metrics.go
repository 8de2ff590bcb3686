package metrics

import "time"

// Outcome labels the result of a single source attempt.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeEmptyResponse  Outcome = "empty_response"
	OutcomeNoMatches      Outcome = "no_matches"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeError          Outcome = "error"
)

// Recorder receives lyrics fetch measurements.
type Recorder interface {
	// ObserveFetch records one attempt against a single source.
	ObserveFetch(source string, outcome Outcome, elapsed time.Duration)
	// ObserveLookup records the overall result of trying the configured sources.
	ObserveLookup(found bool)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) ObserveFetch(string, Outcome, time.Duration) {}
func (Nop) ObserveLookup(bool)                          {}

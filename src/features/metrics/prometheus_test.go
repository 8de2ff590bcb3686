package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_ObserveFetch(t *testing.T) {
	c := NewCollector()

	c.ObserveFetch("genius", OutcomeNoMatches, 20*time.Millisecond)
	c.ObserveFetch("genius", OutcomeSuccess, 30*time.Millisecond)
	c.ObserveFetch("genius", OutcomeSuccess, 10*time.Millisecond)

	if got := testutil.ToFloat64(c.fetchAttempts.WithLabelValues("genius", string(OutcomeSuccess))); got != 2 {
		t.Errorf("expected 2 successful attempts, got %v", got)
	}
	if got := testutil.ToFloat64(c.fetchAttempts.WithLabelValues("genius", string(OutcomeNoMatches))); got != 1 {
		t.Errorf("expected 1 failed attempt, got %v", got)
	}
}

func TestCollector_ObserveLookup(t *testing.T) {
	c := NewCollector()

	c.ObserveLookup(true)
	c.ObserveLookup(false)
	c.ObserveLookup(false)

	if got := testutil.ToFloat64(c.lookups.WithLabelValues("not_found")); got != 2 {
		t.Errorf("expected 2 misses, got %v", got)
	}
	if n, err := testutil.GatherAndCount(c.Registry(), "lyr_lookups_total"); err != nil || n != 2 {
		t.Errorf("expected 2 lookup series, got %d (%v)", n, err)
	}
}

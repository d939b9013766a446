package provider

import (
	"context"
	"math"
	"testing"
)

func TestRoundRobinSelectorCounterWrap(t *testing.T) {
	a, b, c := NewBase("a"), NewBase("b"), NewBase("c")
	for _, p := range []*Base{a, b, c} {
		p.MarkReady()
	}
	providers := []*Base{a, b, c}

	tests := []struct {
		name  string
		start uint64
		want  string
	}{
		{"zero", 0, "a"},
		{"past int64", math.MaxInt64 + 1, "c"},
		{"max", math.MaxUint64, "a"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := &RoundRobinSelector[*Base]{}
			rr.counter.Store(tc.start)
			p, err := rr.Select(context.Background(), providers)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if p.Name() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, p.Name())
			}
		})
	}
}

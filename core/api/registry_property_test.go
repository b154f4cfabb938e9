package api

import (
	"testing"

	"pgregory.net/rapid"
)

// The retained factory is the first one submitted with the highest priority
// and the stored priority never decreases.
func TestRegistry_HighestPriorityFirstWriterWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ref := MustRef("core.property")
		reg := NewRegistry()
		scopes := rapid.SliceOfN(rapid.SampledFrom(Scopes()), 1, 30).Draw(t, "scopes")

		var want *Factory
		best := -1
		last := -1
		for i, s := range scopes {
			f := Instance(ref, i)
			p, _ := s.Priority()
			accepted := reg.Register(s, f)
			if accepted != (p > best) {
				t.Fatalf("step %d: scope %s accepted=%v with best %d", i, s, accepted, best)
			}
			if p > best {
				best = p
				want = f
			}
			e, _ := reg.Lookup(ref)
			if e.Priority < last {
				t.Fatalf("priority decreased from %d to %d", last, e.Priority)
			}
			last = e.Priority
		}
		got, ok := reg.Get(ref)
		if !ok || got != want {
			t.Fatalf("retained factory mismatch")
		}
	})
}

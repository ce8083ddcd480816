package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailability_NewlyConstructed_EverythingUp(t *testing.T) {
	a := NewAvailability()
	assert.True(t, a.IsAvailable(Path{"r1", "r2"}))
}

// TestAvailability_MarkDownThenUp_RoundTrip is property #9: a path's
// availability is fully reversible across a down/up cycle.
func TestAvailability_MarkDownThenUp_RoundTrip(t *testing.T) {
	a := NewAvailability()
	p := Path{"r1", "r2"}

	a.MarkDown(p)
	assert.False(t, a.IsAvailable(p))

	a.MarkUp(p)
	assert.True(t, a.IsAvailable(p))
}

func TestAvailability_DistinctPathsIndependent(t *testing.T) {
	a := NewAvailability()
	down := Path{"r1"}
	up := Path{"r2"}
	a.MarkDown(down)

	assert.False(t, a.IsAvailable(down))
	assert.True(t, a.IsAvailable(up))
}

func TestAvailability_MarkUp_OnNeverDownPath_IsNoop(t *testing.T) {
	a := NewAvailability()
	p := Path{"r1"}
	a.MarkUp(p) // never marked down
	assert.True(t, a.IsAvailable(p))
}

func TestAvailability_MarkDown_Idempotent(t *testing.T) {
	a := NewAvailability()
	p := Path{"r1"}
	a.MarkDown(p)
	a.MarkDown(p)
	assert.False(t, a.IsAvailable(p))
}

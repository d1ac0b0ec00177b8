package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

func TestBoundedness(t *testing.T) {
	m := NewBoundedness(1.5)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}

	near := restingPair(2)
	far := restingPair(4)

	m.Observe(near, 0)
	m.Observe(near, 0.1)
	m.Observe(far, 0.2)
	m.Observe(far, 0.3)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected boundedness 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Errorf("expected 1 after reset, got %f", m.Value())
	}
}

func TestMaxRadius(t *testing.T) {
	m := NewMaxRadius()

	bodies := dynamo.BodySet{
		dynamo.NewBody(3, r3.Vec{X: 10}, r3.Vec{}),
		dynamo.NewBody(1, r3.Vec{X: 14}, r3.Vec{}),
	}
	m.Observe(bodies, 0)

	// CM at x=11.
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected max radius 3, got %f", m.Value())
	}

	m.Observe(restingPair(1), 0.1)
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("max radius should not shrink, got %f", m.Value())
	}
}

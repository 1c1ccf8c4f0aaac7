package trackbox

import (
	"errors"
	"math"
	"testing"
)

func TestEmptyCurveReturnsNeutral(t *testing.T) {
	delta := NewCurve(0)
	scale := NewCurve(1)

	for _, frame := range []int64{1, 50, 10000} {
		if v := delta.Value(frame); v != 0 {
			t.Errorf("delta.Value(%d) = %f, want 0", frame, v)
		}
		if v := scale.Value(frame); v != 1 {
			t.Errorf("scale.Value(%d) = %f, want 1", frame, v)
		}
	}
}

func TestCurveExactPointValue(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(10, 42.5, InterpLinear)
	c.AddPoint(20, -7, InterpLinear)

	if v := c.Value(10); v != 42.5 {
		t.Errorf("Value(10) = %f, want 42.5", v)
	}
	if v := c.Value(20); v != -7 {
		t.Errorf("Value(20) = %f, want -7", v)
	}
}

func TestCurveLinearInterpolation(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(1, 0, InterpLinear)
	c.AddPoint(11, 100, InterpLinear)

	if v := c.Value(6); math.Abs(v-50) > 1e-4 {
		t.Errorf("Value(6) = %f, want ~50", v)
	}
	if v := c.Value(3); math.Abs(v-20) > 1e-4 {
		t.Errorf("Value(3) = %f, want ~20", v)
	}
}

func TestCurveConstantHoldsPreviousValue(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(1, 5, InterpLinear)
	c.AddPoint(11, 100, InterpConstant)

	for frame := int64(2); frame <= 10; frame++ {
		if v := c.Value(frame); v != 5 {
			t.Errorf("Value(%d) = %f, want held value 5", frame, v)
		}
	}
	if v := c.Value(11); v != 100 {
		t.Errorf("Value(11) = %f, want 100", v)
	}
}

func TestCurveBezierEasesIn(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(1, 0, InterpLinear)
	c.AddPoint(41, 100, InterpBezier)

	// A quarter of the way in, the eased value should trail well behind
	// the linear 25.
	v := c.Value(11)
	if v <= 0 || v >= 20 {
		t.Errorf("Value(11) = %f, want eased value in (0, 20)", v)
	}

	// Midpoint of a symmetric ease matches linear.
	if mid := c.Value(21); math.Abs(mid-50) > 1e-3 {
		t.Errorf("Value(21) = %f, want ~50", mid)
	}
}

func TestCurveClampsBeyondEndpoints(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(10, 3, InterpLinear)
	c.AddPoint(20, 9, InterpLinear)

	if v := c.Value(1); v != 3 {
		t.Errorf("Value(1) = %f, want first point value 3", v)
	}
	if v := c.Value(500); v != 9 {
		t.Errorf("Value(500) = %f, want last point value 9", v)
	}
}

func TestCurveInterpolationMonotonic(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(1, 0, InterpLinear)
	c.AddPoint(21, 80, InterpBezier)

	prev := c.Value(1)
	for frame := int64(2); frame <= 21; frame++ {
		v := c.Value(frame)
		if v < prev-1e-6 {
			t.Fatalf("Value(%d) = %f dropped below Value(%d) = %f", frame, v, frame-1, prev)
		}
		prev = v
	}
}

func TestCurveAddPointReplacesSameFrame(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(5, 1, InterpLinear)
	c.AddPoint(5, 2, InterpConstant)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if v := c.Value(5); v != 2 {
		t.Errorf("Value(5) = %f, want 2", v)
	}
}

func TestCurveRemovePoint(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(5, 1, InterpLinear)
	c.AddPoint(10, 2, InterpLinear)

	c.RemovePoint(5)
	if c.HasPoint(5) {
		t.Error("HasPoint(5) = true after RemovePoint")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// Removing an absent frame is a no-op.
	c.RemovePoint(99)
	if c.Len() != 1 {
		t.Errorf("Len() = %d after absent removal, want 1", c.Len())
	}
}

func TestCurveScalePointsRescalesFrames(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(10, 1, InterpLinear)
	c.AddPoint(20, 2, InterpLinear)

	c.ScalePoints(2)
	if !c.HasPoint(20) || !c.HasPoint(40) {
		t.Errorf("points after scale: %+v, want frames 20 and 40", c.Points())
	}
}

func TestCurveScalePointsCollapsesCollisions(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(10, 1, InterpLinear)
	c.AddPoint(11, 2, InterpLinear)

	// Both frames round to 1 under a tenth-speed scale; the later point
	// wins.
	c.ScalePoints(0.1)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after collision", c.Len())
	}
	if v := c.Value(1); v != 2 {
		t.Errorf("Value(1) = %f, want 2", v)
	}
}

func TestCurveScalePointsIgnoresNonPositive(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(10, 1, InterpLinear)

	c.ScalePoints(0)
	c.ScalePoints(-3)
	if !c.HasPoint(10) {
		t.Error("points moved under non-positive scale")
	}
}

func TestCurveJSONRoundTrip(t *testing.T) {
	c := NewCurve(1)
	c.AddPoint(1, 0.5, InterpLinear)
	c.AddPoint(30, 2, InterpBezier)
	c.AddPoint(60, 1, InterpConstant)

	data, err := c.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	restored := NewCurve(0)
	if err := restored.SetJSON(data); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if restored.Neutral() != 1 {
		t.Errorf("Neutral() = %f, want 1", restored.Neutral())
	}
	for frame := int64(1); frame <= 60; frame++ {
		if a, b := c.Value(frame), restored.Value(frame); math.Abs(a-b) > 1e-9 {
			t.Fatalf("Value(%d): original %f, restored %f", frame, a, b)
		}
	}
}

func TestCurvePartialUpdate(t *testing.T) {
	c := NewCurve(0)
	c.AddPoint(5, 3, InterpLinear)

	// Only "default" present: points untouched.
	if err := c.SetJSON([]byte(`{"default": 7}`)); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if c.Neutral() != 7 {
		t.Errorf("Neutral() = %f, want 7", c.Neutral())
	}
	if !c.HasPoint(5) {
		t.Error("points were reset by a default-only update")
	}

	// Only "points" present: neutral untouched.
	if err := c.SetJSON([]byte(`{"points": [{"frame": 9, "value": 4, "interpolation": "linear"}]}`)); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if c.Neutral() != 7 {
		t.Errorf("Neutral() = %f after points update, want 7", c.Neutral())
	}
	if !c.HasPoint(9) || c.HasPoint(5) {
		t.Errorf("points = %+v, want exactly frame 9", c.Points())
	}
}

func TestCurveSetJSONInvalid(t *testing.T) {
	c := NewCurve(0)
	if err := c.SetJSON([]byte(`}{`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("malformed text: err = %v, want ErrInvalidJSON", err)
	}
	if err := c.SetJSON([]byte(`{"points": [{"interpolation": "spline"}]}`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("unknown interpolation: err = %v, want ErrInvalidJSON", err)
	}
}

func TestInterpolationNames(t *testing.T) {
	cases := []struct {
		mode Interpolation
		name string
	}{
		{InterpBezier, "bezier"},
		{InterpLinear, "linear"},
		{InterpConstant, "constant"},
	}
	for _, tc := range cases {
		if tc.mode.String() != tc.name {
			t.Errorf("%d.String() = %q, want %q", tc.mode, tc.mode.String(), tc.name)
		}
	}
}

package trackbox

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/tanema/gween/ease"
)

// Interpolation selects how a curve segment approaches its destination
// point. The mode is stored on the destination (right-hand) point of
// each segment.
type Interpolation int

const (
	// InterpBezier eases smoothly in and out of the destination value.
	InterpBezier Interpolation = iota
	// InterpLinear moves to the destination value at a constant rate.
	InterpLinear
	// InterpConstant holds the previous value until the destination frame.
	InterpConstant
)

var interpNames = [...]string{
	InterpBezier:   "bezier",
	InterpLinear:   "linear",
	InterpConstant: "constant",
}

func (i Interpolation) String() string {
	if i < 0 || int(i) >= len(interpNames) {
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
	return interpNames[i]
}

// MarshalJSON emits the interpolation mode as its name string.
func (i Interpolation) MarshalJSON() ([]byte, error) {
	if i < 0 || int(i) >= len(interpNames) {
		return nil, fmt.Errorf("trackbox: unknown interpolation %d", int(i))
	}
	return json.Marshal(interpNames[i])
}

// UnmarshalJSON accepts the mode name strings emitted by MarshalJSON.
func (i *Interpolation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for mode, n := range interpNames {
		if n == name {
			*i = Interpolation(mode)
			return nil
		}
	}
	return fmt.Errorf("trackbox: unknown interpolation %q", name)
}

// easeFor maps an interpolation mode to its easing function. Constant
// segments are stepped before easing applies, so only bezier and linear
// need an entry.
func easeFor(i Interpolation) ease.TweenFunc {
	if i == InterpBezier {
		return ease.InOutCubic
	}
	return ease.Linear
}

// Point is one authored control point on a Curve.
type Point struct {
	Frame  int64         `json:"frame"`
	Value  float64       `json:"value"`
	Interp Interpolation `json:"interpolation"`
}

// Curve is a sparse keyframe curve for one scalar property: a sorted
// set of control points with a defined interpolation rule between them,
// evaluable at any frame number.
//
// A curve with zero control points evaluates to its neutral default at
// every frame (0 for displacement and rotation curves, 1 for scale
// curves). The neutral rule lives on each curve; there is no shared
// default-curve state.
//
// Invariant: points are sorted by Frame with unique frames.
type Curve struct {
	neutral float64
	points  []Point
}

// NewCurve returns an empty curve that evaluates to neutral everywhere.
func NewCurve(neutral float64) *Curve {
	return &Curve{neutral: neutral}
}

// Neutral returns the value an empty curve evaluates to.
func (c *Curve) Neutral() float64 {
	return c.neutral
}

// Len returns the number of authored control points.
func (c *Curve) Len() int {
	return len(c.points)
}

// Points returns a copy of the control points in frame order.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// search returns the index of the first point with Frame >= frame and
// whether that point is an exact hit.
func (c *Curve) search(frame int64) (int, bool) {
	i := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].Frame >= frame
	})
	return i, i < len(c.points) && c.points[i].Frame == frame
}

// AddPoint inserts a control point, replacing any existing point at the
// same frame.
func (c *Curve) AddPoint(frame int64, value float64, interp Interpolation) {
	p := Point{Frame: frame, Value: value, Interp: interp}
	i, exact := c.search(frame)
	if exact {
		c.points[i] = p
		return
	}
	c.points = append(c.points, Point{})
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = p
}

// RemovePoint deletes the control point at the given frame. Removing an
// absent frame is a no-op.
func (c *Curve) RemovePoint(frame int64) {
	if i, exact := c.search(frame); exact {
		c.points = append(c.points[:i], c.points[i+1:]...)
	}
}

// HasPoint reports whether a control point exists at exactly the given
// frame.
func (c *Curve) HasPoint(frame int64) bool {
	_, exact := c.search(frame)
	return exact
}

// Value evaluates the curve at the given frame. Frames before the first
// point or after the last clamp to the endpoint values; frames between
// two points interpolate through the destination point's mode.
func (c *Curve) Value(frame int64) float64 {
	n := len(c.points)
	if n == 0 {
		return c.neutral
	}
	i, exact := c.search(frame)
	switch {
	case exact:
		return c.points[i].Value
	case i == 0:
		return c.points[0].Value
	case i == n:
		return c.points[n-1].Value
	}
	left, right := c.points[i-1], c.points[i]
	if right.Interp == InterpConstant {
		return left.Value
	}
	fn := easeFor(right.Interp)
	t := float64(frame - left.Frame)
	d := float64(right.Frame - left.Frame)
	// Ease with b=0 and add the offset back in float64 to keep the
	// float32 conversion from touching large absolute values.
	return left.Value + float64(fn(float32(t), 0, float32(right.Value-left.Value), float32(d)))
}

// ScalePoints multiplies every control point's frame number by scale,
// rounding to the nearest frame. Points that collide after rounding are
// collapsed, keeping the later one. Non-positive scales are ignored.
func (c *Curve) ScalePoints(scale float64) {
	if scale <= 0 || len(c.points) == 0 {
		return
	}
	for i := range c.points {
		c.points[i].Frame = int64(math.Round(float64(c.points[i].Frame) * scale))
	}
	// A positive scale preserves order, so a single compaction pass
	// restores the unique-frames invariant.
	out := c.points[:0]
	for _, p := range c.points {
		if len(out) > 0 && out[len(out)-1].Frame == p.Frame {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	c.points = out
}

// curveProbe mirrors the Curve wire keys with presence-checkable fields.
type curveProbe struct {
	Neutral *float64 `json:"default"`
	Points  []Point  `json:"points"`
}

// MarshalJSON emits the neutral default and the full point list.
func (c *Curve) MarshalJSON() ([]byte, error) {
	points := c.points
	if points == nil {
		points = []Point{}
	}
	return json.Marshal(struct {
		Neutral float64 `json:"default"`
		Points  []Point `json:"points"`
	}{c.neutral, points})
}

// UnmarshalJSON applies only the keys present in the document: "default"
// replaces the neutral value, "points" replaces the whole point set
// (re-sorted, duplicate frames collapsed to the last occurrence). Absent
// keys leave the curve unchanged.
func (c *Curve) UnmarshalJSON(data []byte) error {
	var probe curveProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Neutral != nil {
		c.neutral = *probe.Neutral
	}
	if probe.Points != nil {
		points := probe.Points
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].Frame < points[j].Frame
		})
		out := points[:0]
		for _, p := range points {
			if len(out) > 0 && out[len(out)-1].Frame == p.Frame {
				out[len(out)-1] = p
				continue
			}
			out = append(out, p)
		}
		c.points = out
	}
	return nil
}

// JSON returns the curve as a JSON document.
func (c *Curve) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// SetJSON applies a JSON document to the curve with partial-update
// semantics (see UnmarshalJSON). Malformed input is reported as
// ErrInvalidJSON.
func (c *Curve) SetJSON(data []byte) error {
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

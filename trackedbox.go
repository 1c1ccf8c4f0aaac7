package trackbox

import (
	"encoding/json"
	"fmt"
)

// BoxSource is the capability shared by keyframe-bearing objects that
// can report their effective box-related values at a frame and have
// their time mapping rescaled when the surrounding clip changes speed.
// Heterogeneous tracked objects compose through this interface rather
// than through a shared base type.
type BoxSource interface {
	GetBoxValues(frame int64) map[string]float64
	ScalePoints(scale float64)
}

// TrackedBox stores the bounding box of one tracked object across a
// clip's frames and replays it at any requested frame number.
//
// Box samples come from an external tracker (see LoadBoxData) and are
// indexed by normalized time. On top of the tracked base box, five
// authored adjustment curves apply on every lookup: DeltaX and DeltaY
// offset the center, ScaleX and ScaleY multiply the size, and Rotation
// offsets the angle. The curves apply even when the timeline is empty
// or holds a single sample.
//
// Construct with NewTrackedBox. Not safe for concurrent mutation; the
// read path mutates nothing (see the package documentation).
type TrackedBox struct {
	DeltaX   *Curve // x-displacement of the box center
	DeltaY   *Curve // y-displacement of the box center
	ScaleX   *Curve // width multiplier, neutral 1
	ScaleY   *Curve // height multiplier, neutral 1
	Rotation *Curve // angle offset in degrees

	// Visible marks whether the surrounding pipeline should draw this
	// box. Carried through JSON round-trips; not consulted by GetBox.
	Visible bool

	// DataPath is the tracker-data file the timeline was last loaded
	// from, kept for re-loading and serialization.
	DataPath string

	boxes     *timeline
	baseFPS   Fraction
	timeScale float64
}

var _ BoxSource = (*TrackedBox)(nil)

// NewTrackedBox returns an empty tracked box: no samples, neutral
// curves, visible, base frame rate 24/1, time scale 1.
func NewTrackedBox() *TrackedBox {
	return &TrackedBox{
		DeltaX:    NewCurve(0),
		DeltaY:    NewCurve(0),
		ScaleX:    NewCurve(1),
		ScaleY:    NewCurve(1),
		Rotation:  NewCurve(0),
		Visible:   true,
		boxes:     newTimeline(),
		baseFPS:   Fraction{Num: 24, Den: 1},
		timeScale: 1,
	}
}

// ensureInit backfills nil state so a TrackedBox decoded straight into
// a zero struct behaves like one from NewTrackedBox.
func (tb *TrackedBox) ensureInit() {
	if tb.DeltaX == nil {
		tb.DeltaX = NewCurve(0)
	}
	if tb.DeltaY == nil {
		tb.DeltaY = NewCurve(0)
	}
	if tb.ScaleX == nil {
		tb.ScaleX = NewCurve(1)
	}
	if tb.ScaleY == nil {
		tb.ScaleY = NewCurve(1)
	}
	if tb.Rotation == nil {
		tb.Rotation = NewCurve(0)
	}
	if tb.boxes == nil {
		tb.boxes = newTimeline()
		tb.baseFPS = Fraction{Num: 24, Den: 1}
		tb.timeScale = 1
		tb.Visible = true
	}
}

// --- Time mapping ---

// FrameToTime converts a frame number (1-based) into the timeline's
// normalized time unit:
//
//	t = (frame - 1) / (baseFPS * timeScale)
//
// Pure function of its inputs and the base frame rate. The write path
// (AddBox) and the read paths (GetBox, Contains, RemoveBox) all go
// through it with the current time scale, so keys match bit-for-bit.
func (tb *TrackedBox) FrameToTime(frame int64, timeScale float64) float64 {
	return float64(frame-1) / (tb.baseFPS.Value() * timeScale)
}

// SetBaseFPS records the frame rate the tracking data assumes. The
// fraction is normalized, so a zero or negative denominator cannot be
// stored.
func (tb *TrackedBox) SetBaseFPS(fps Fraction) {
	tb.baseFPS = NewFraction(fps.Num, fps.Den)
}

// BaseFPS returns the frame rate the tracking data assumes.
func (tb *TrackedBox) BaseFPS() Fraction {
	return tb.baseFPS
}

// ScalePoints records a new time-scale factor, consulted by every
// subsequent frame-to-time mapping. Stored timeline keys are not
// re-keyed: a box added at frame N under the old scale is found at a
// different frame number afterwards. Non-positive scales are ignored.
func (tb *TrackedBox) ScalePoints(scale float64) {
	if scale <= 0 {
		return
	}
	tb.timeScale = scale
}

// TimeScale returns the current time-scale factor.
func (tb *TrackedBox) TimeScale() float64 {
	return tb.timeScale
}

// --- Timeline mutation ---

// AddBox stores a box sample for the given frame number, overwriting
// any sample previously stored at the same time key.
func (tb *TrackedBox) AddBox(frame int64, cx, cy, width, height, angle float64) {
	t := tb.FrameToTime(frame, tb.timeScale)
	tb.boxes.insert(t, NewBBoxAt(cx, cy, width, height, angle))
}

// RemoveBox deletes the sample stored for the given frame number.
// Removing an absent frame is a no-op.
func (tb *TrackedBox) RemoveBox(frame int64) {
	tb.boxes.remove(tb.FrameToTime(frame, tb.timeScale))
}

// Contains reports whether a sample exists at exactly the time key the
// given frame number maps to.
func (tb *TrackedBox) Contains(frame int64) bool {
	_, ok := tb.boxes.get(tb.FrameToTime(frame, tb.timeScale))
	return ok
}

// Length returns the number of stored box samples.
func (tb *TrackedBox) Length() int {
	return tb.boxes.len()
}

// Clear empties the timeline and forgets the source data path. Curves,
// frame rate, and time scale are left alone.
func (tb *TrackedBox) Clear() {
	tb.boxes.clear()
	tb.DataPath = ""
}

// EachBox visits every stored sample in temporal order, passing the
// normalized time key and a copy of the sample. Visiting stops early
// when fn returns false. Useful for inspection and export; the
// evaluation path does not use it.
func (tb *TrackedBox) EachBox(fn func(t float64, box BBox) bool) {
	tb.boxes.ascend(fn)
}

// --- Evaluation ---

// GetBox returns the effective bounding box at the requested frame: the
// tracked base sample resolved at that frame's normalized time, with
// the five adjustment curves composed on top.
//
// Lookups never fail. An empty timeline yields the sentinel box (all
// fields Unset); frames before the first or after the last sample clamp
// to that sample. Repeated calls with unchanged state return identical
// results — there is no caching.
func (tb *TrackedBox) GetBox(frame int64) BBox {
	box := tb.baseBox(frame)
	box.CX += tb.DeltaX.Value(frame)
	box.CY += tb.DeltaY.Value(frame)
	box.Width *= tb.ScaleX.Value(frame)
	box.Height *= tb.ScaleY.Value(frame)
	box.Angle += tb.Rotation.Value(frame)
	return box
}

// baseBox resolves the tracked sample at the requested frame, before
// curve composition: exact hits and out-of-range frames return a stored
// sample unmodified, in-between frames interpolate between the two
// bracketing samples.
func (tb *TrackedBox) baseBox(frame int64) BBox {
	if tb.boxes.len() == 0 {
		return NewBBox()
	}
	t := tb.FrameToTime(frame, tb.timeScale)
	if box, ok := tb.boxes.get(t); ok {
		return box
	}
	t1, left, okL := tb.boxes.floor(t)
	t2, right, okR := tb.boxes.ceiling(t)
	if !okL {
		return right // before the first sample
	}
	if !okR {
		return left // after the last sample
	}
	return InterpolateBoxes(t1, t2, left, right, t)
}

// InterpolateBoxes linearly interpolates every field of two box samples
// taken at times t1 and t2 toward the target time. Coincident times
// return left unmodified.
func InterpolateBoxes(t1, t2 float64, left, right BBox, target float64) BBox {
	if t1 == t2 {
		return left
	}
	f := (target - t1) / (t2 - t1)
	return BBox{
		CX:     left.CX + f*(right.CX-left.CX),
		CY:     left.CY + f*(right.CY-left.CY),
		Width:  left.Width + f*(right.Width-left.Width),
		Height: left.Height + f*(right.Height-left.Height),
		Angle:  left.Angle + f*(right.Angle-left.Angle),
	}
}

// --- Serialization ---

// trackedBoxProbe mirrors the TrackedBox wire keys with
// presence-checkable fields for partial updates.
type trackedBoxProbe struct {
	Visible   *bool           `json:"visible"`
	BaseFPS   json.RawMessage `json:"base_fps"`
	TimeScale *float64        `json:"time_scale"`
	DeltaX    json.RawMessage `json:"delta_x"`
	DeltaY    json.RawMessage `json:"delta_y"`
	ScaleX    json.RawMessage `json:"scale_x"`
	ScaleY    json.RawMessage `json:"scale_y"`
	Rotation  json.RawMessage `json:"rotation"`
	DataPath  *string         `json:"protobuf_data_path"`
}

// MarshalJSON emits the visibility flag, base frame rate, time scale,
// the five curves, and the tracker-data path. The timeline itself is
// not inlined: it is reconstructed from the data path via LoadBoxData.
func (tb *TrackedBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Visible   bool     `json:"visible"`
		BaseFPS   Fraction `json:"base_fps"`
		TimeScale float64  `json:"time_scale"`
		DeltaX    *Curve   `json:"delta_x"`
		DeltaY    *Curve   `json:"delta_y"`
		ScaleX    *Curve   `json:"scale_x"`
		ScaleY    *Curve   `json:"scale_y"`
		Rotation  *Curve   `json:"rotation"`
		DataPath  string   `json:"protobuf_data_path"`
	}{tb.Visible, tb.baseFPS, tb.timeScale,
		tb.DeltaX, tb.DeltaY, tb.ScaleX, tb.ScaleY, tb.Rotation,
		tb.DataPath})
}

// UnmarshalJSON applies only the keys present in the document. Curves
// update with their own partial semantics; absent keys leave fields
// unchanged. A document that fails to decode changes nothing.
func (tb *TrackedBox) UnmarshalJSON(data []byte) error {
	tb.ensureInit()
	var probe trackedBoxProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	// Decode curve documents before applying anything, so a bad curve
	// leaves the whole object untouched.
	curves := []struct {
		raw  json.RawMessage
		dst  *Curve
		name string
	}{
		{probe.DeltaX, tb.DeltaX, "delta_x"},
		{probe.DeltaY, tb.DeltaY, "delta_y"},
		{probe.ScaleX, tb.ScaleX, "scale_x"},
		{probe.ScaleY, tb.ScaleY, "scale_y"},
		{probe.Rotation, tb.Rotation, "rotation"},
	}
	staged := make([]Curve, len(curves))
	for i, c := range curves {
		if c.raw == nil {
			continue
		}
		staged[i] = *c.dst
		staged[i].points = c.dst.Points()
		if err := json.Unmarshal(c.raw, &staged[i]); err != nil {
			return fmt.Errorf("curve %s: %w", c.name, err)
		}
	}
	var fps Fraction
	if probe.BaseFPS != nil {
		if err := json.Unmarshal(probe.BaseFPS, &fps); err != nil {
			return err
		}
	}

	if probe.Visible != nil {
		tb.Visible = *probe.Visible
	}
	if probe.BaseFPS != nil {
		tb.SetBaseFPS(fps)
	}
	if probe.TimeScale != nil {
		tb.ScalePoints(*probe.TimeScale)
	}
	for i, c := range curves {
		if c.raw != nil {
			*c.dst = staged[i]
		}
	}
	if probe.DataPath != nil {
		tb.DataPath = *probe.DataPath
	}
	return nil
}

// JSON returns the tracked box as a JSON document.
func (tb *TrackedBox) JSON() ([]byte, error) {
	return json.Marshal(tb)
}

// SetJSON applies a JSON document to the tracked box with
// partial-update semantics (see UnmarshalJSON). Malformed input is
// reported as ErrInvalidJSON.
func (tb *TrackedBox) SetJSON(data []byte) error {
	if err := json.Unmarshal(data, tb); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

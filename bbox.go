package trackbox

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidJSON reports a structured document that could not be
// applied: unparseable text, or present keys holding the wrong types.
// Every SetJSON entry point in this package wraps its underlying parse
// failure in this error, so callers match a single failure kind with
// errors.Is regardless of what the decoder reported.
var ErrInvalidJSON = errors.New("trackbox: invalid JSON (missing keys or invalid data types)")

// Unset is the sentinel value carried by box fields that hold no data,
// distinguishing "never tracked" from a valid zero-sized box.
const Unset = -1

// BBox describes one rectangular region of interest: a rotatable
// rectangle given by its center point, size, and rotation angle in
// degrees. Value type — copied by value; stored samples are never
// shared by reference.
type BBox struct {
	CX     float64 // x-coordinate of the box center
	CY     float64 // y-coordinate of the box center
	Width  float64
	Height float64
	Angle  float64 // rotation in degrees
}

// NewBBox returns a box with every field set to the Unset sentinel.
func NewBBox() BBox {
	return BBox{CX: Unset, CY: Unset, Width: Unset, Height: Unset, Angle: Unset}
}

// NewBBoxAt returns a box with the given center, size and angle.
func NewBBoxAt(cx, cy, width, height, angle float64) BBox {
	return BBox{CX: cx, CY: cy, Width: width, Height: height, Angle: angle}
}

// bboxProbe mirrors the BBox wire keys with pointer fields, so absent
// keys are distinguishable from zero values during partial updates.
type bboxProbe struct {
	CX     *float64 `json:"cx"`
	CY     *float64 `json:"cy"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Angle  *float64 `json:"angle"`
}

// MarshalJSON emits all five box fields under their wire keys
// (cx, cy, width, height, angle).
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CX     float64 `json:"cx"`
		CY     float64 `json:"cy"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		Angle  float64 `json:"angle"`
	}{b.CX, b.CY, b.Width, b.Height, b.Angle})
}

// UnmarshalJSON applies only the keys present in the document, leaving
// the other fields at their prior values. A document that fails to
// decode changes nothing.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var probe bboxProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.CX != nil {
		b.CX = *probe.CX
	}
	if probe.CY != nil {
		b.CY = *probe.CY
	}
	if probe.Width != nil {
		b.Width = *probe.Width
	}
	if probe.Height != nil {
		b.Height = *probe.Height
	}
	if probe.Angle != nil {
		b.Angle = *probe.Angle
	}
	return nil
}

// JSON returns the box as a JSON document.
func (b BBox) JSON() ([]byte, error) {
	return json.Marshal(b)
}

// SetJSON applies a JSON document to the box with partial-update
// semantics (see UnmarshalJSON). Malformed input is reported as
// ErrInvalidJSON.
func (b *BBox) SetJSON(data []byte) error {
	if err := json.Unmarshal(data, b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

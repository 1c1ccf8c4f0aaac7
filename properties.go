package trackbox

import "encoding/json"

// Property describes one editable property for UI binding: the value at
// the requested frame plus the metadata a property grid needs to render
// and constrain it.
type Property struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Type     string  `json:"type"` // "float" or "int"
	Memo     string  `json:"memo"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Readonly bool    `json:"readonly"`
	Keyframe bool    `json:"keyframe"` // a control point exists at the requested frame
	Points   int     `json:"points"`   // total authored control points
}

// addProperty builds the Property entry for one value. Curve-backed
// properties pass their curve so the keyframe metadata is filled in;
// plain scalars pass nil.
func addProperty(name string, value float64, typ, memo string, c *Curve, min, max float64, readonly bool, frame int64) Property {
	p := Property{
		Name:     name,
		Value:    value,
		Type:     typ,
		Memo:     memo,
		Min:      min,
		Max:      max,
		Readonly: readonly,
	}
	if c != nil {
		p.Keyframe = c.HasPoint(frame)
		p.Points = c.Len()
	}
	return p
}

// Properties returns every editable property evaluated at the requested
// frame, keyed by property id. Made for generic property-grid
// consumption; the evaluation path never calls it.
func (tb *TrackedBox) Properties(frame int64) map[string]Property {
	visible := 0.0
	if tb.Visible {
		visible = 1.0
	}
	return map[string]Property{
		"visible":  addProperty("Visible", visible, "int", "", nil, 0, 1, false, frame),
		"delta_x":  addProperty("Displacement X", tb.DeltaX.Value(frame), "float", "", tb.DeltaX, -1, 1, false, frame),
		"delta_y":  addProperty("Displacement Y", tb.DeltaY.Value(frame), "float", "", tb.DeltaY, -1, 1, false, frame),
		"scale_x":  addProperty("Scale X", tb.ScaleX.Value(frame), "float", "", tb.ScaleX, 0, 1, false, frame),
		"scale_y":  addProperty("Scale Y", tb.ScaleY.Value(frame), "float", "", tb.ScaleY, 0, 1, false, frame),
		"rotation": addProperty("Rotation", tb.Rotation.Value(frame), "float", "", tb.Rotation, 0, 360, false, frame),
	}
}

// PropertiesJSON returns Properties(frame) as a JSON document.
func (tb *TrackedBox) PropertiesJSON(frame int64) ([]byte, error) {
	return json.Marshal(tb.Properties(frame))
}

// GetBoxValues returns the effective bounding box and raw curve values
// at the requested frame, indexed by short property names. This is the
// BoxSource form of GetBox, for callers that dispatch over
// heterogeneous keyframe-bearing objects.
func (tb *TrackedBox) GetBoxValues(frame int64) map[string]float64 {
	box := tb.GetBox(frame)
	return map[string]float64{
		"cx":  box.CX,
		"cy":  box.CY,
		"w":   box.Width,
		"h":   box.Height,
		"ang": box.Angle,
		"dx":  tb.DeltaX.Value(frame),
		"dy":  tb.DeltaY.Value(frame),
		"sx":  tb.ScaleX.Value(frame),
		"sy":  tb.ScaleY.Value(frame),
		"r":   tb.Rotation.Value(frame),
	}
}

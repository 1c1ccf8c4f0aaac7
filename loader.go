package trackbox

import (
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// Tracker-data files are protobuf messages owned by the external
// tracker. The wire schema, walked directly below without generated
// code:
//
//	Tracker { repeated Frame frame = 1; }
//	Frame   { int32 id = 1; Box bounding_box = 2; }
//	Box     { float x1 = 1; float y1 = 2; float x2 = 3; float y2 = 4; float rotation = 5; }
//
// Boxes arrive corner-based (top-left x1,y1 / bottom-right x2,y2) in
// non-decreasing frame order and are converted to center form on load.
const (
	trackerFrameField = 1

	frameIDField  = 1
	frameBoxField = 2

	boxX1Field       = 1
	boxY1Field       = 2
	boxX2Field       = 3
	boxY2Field       = 4
	boxRotationField = 5
)

// boxRecord is one decoded tracker record in center form.
type boxRecord struct {
	frame  int64
	cx, cy float64
	width  float64
	height float64
	angle  float64
}

// LoadBoxData reads the tracker-data file at path and merges its box
// records into the timeline in frame order. Records overwrite existing
// samples at the same time key; call Clear first for a fresh load.
//
// Records the tracker marked as lost (negative coordinates or size) are
// skipped. Failures — missing file, unreadable or malformed bytes — are
// reported as an error and leave the object exactly as it was before
// the call.
func (tb *TrackedBox) LoadBoxData(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("trackbox: read box data: %w", err)
	}
	records, err := decodeTrackerData(data)
	if err != nil {
		return fmt.Errorf("trackbox: parse box data %s: %w", path, err)
	}
	for _, r := range records {
		if r.cx < 0 || r.cy < 0 || r.width < 0 || r.height < 0 {
			continue
		}
		tb.AddBox(r.frame, r.cx, r.cy, r.width, r.height, r.angle)
	}
	tb.DataPath = path
	return nil
}

// decodeTrackerData walks the top-level Tracker message, collecting one
// record per Frame field. Unknown fields (e.g. the tracker's timestamp)
// are skipped.
func decodeTrackerData(data []byte) ([]boxRecord, error) {
	var records []boxRecord
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
		if num == trackerFrameField && typ == protowire.BytesType {
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
			rec, err := decodeFrame(msg)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
	}
	return records, nil
}

// decodeFrame decodes one Frame message: the frame number and its
// corner-based box, converted to center form.
func decodeFrame(data []byte) (boxRecord, error) {
	var rec boxRecord
	var x1, y1, x2, y2 float64
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return rec, protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == frameIDField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return rec, protowire.ParseError(n)
			}
			data = data[n:]
			rec.frame = int64(int32(v))
		case num == frameBoxField && typ == protowire.BytesType:
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return rec, protowire.ParseError(n)
			}
			data = data[n:]
			var err error
			x1, y1, x2, y2, rec.angle, err = decodeBox(msg)
			if err != nil {
				return rec, err
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return rec, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	rec.width = x2 - x1
	rec.height = y2 - y1
	rec.cx = x1 + rec.width/2
	rec.cy = y1 + rec.height/2
	return rec, nil
}

// decodeBox decodes one Box message's five float fields.
func decodeBox(data []byte) (x1, y1, x2, y2, rotation float64, err error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return 0, 0, 0, 0, 0, protowire.ParseError(n)
		}
		data = data[n:]
		if typ != protowire.Fixed32Type {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return 0, 0, 0, 0, 0, protowire.ParseError(n)
			}
			data = data[n:]
			continue
		}
		bits, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return 0, 0, 0, 0, 0, protowire.ParseError(n)
		}
		data = data[n:]
		v := float64(math.Float32frombits(bits))
		switch num {
		case boxX1Field:
			x1 = v
		case boxY1Field:
			y1 = v
		case boxX2Field:
			x2 = v
		case boxY2Field:
			y2 = v
		case boxRotationField:
			rotation = v
		}
	}
	return x1, y1, x2, y2, rotation, nil
}

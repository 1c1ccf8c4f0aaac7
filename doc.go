// Package trackbox replays object-tracking results as animatable
// bounding boxes.
//
// A [TrackedBox] stores the sparse box samples produced by an external
// object tracker, indexed by normalized time, and answers for any
// requested frame number the best-estimate box at that frame. Samples
// are looked up with a bracketing search, linearly interpolated between
// the two surrounding entries, and composed with five user-authored
// adjustment curves: center displacement ([TrackedBox.DeltaX],
// [TrackedBox.DeltaY]), size scale ([TrackedBox.ScaleX],
// [TrackedBox.ScaleY]), and rotation offset ([TrackedBox.Rotation]).
//
// # Quick start
//
//	tb := trackbox.NewTrackedBox()
//	tb.SetBaseFPS(trackbox.NewFraction(30, 1))
//	if err := tb.LoadBoxData("object.data"); err != nil {
//		// timeline is unchanged; report and move on
//	}
//	box := tb.GetBox(42)
//
// # Time bases
//
// Three time bases meet in this package. Tracker data is produced at a
// base frame rate, kept exact as a rational [Fraction]. The project may
// play the clip at a different effective speed, expressed as a
// run-time-adjustable time-scale factor ([TrackedBox.ScalePoints]).
// Adjustment curves are keyed directly by frame number. GetBox
// reconciles all three on every call: the frame number is mapped to
// normalized time as (frame-1)/(fps*timeScale) for the timeline lookup,
// while the curves are evaluated at the raw frame number.
//
// # Concurrency
//
// A TrackedBox is not safe for unsynchronized concurrent mutation. The
// read path (GetBox, GetBoxValues, Contains, Properties) mutates
// nothing, so the usual pattern — load once, then many concurrent
// read-only lookups from render workers — is safe.
//
// # Errors
//
// Render-path lookups never fail: an empty timeline yields the sentinel
// box (all fields [Unset]), out-of-range frames clamp to the nearest
// stored sample. The load and JSON entry points report failures as
// values; malformed structured input is always wrapped in
// [ErrInvalidJSON].
package trackbox

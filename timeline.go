package trackbox

import "github.com/petar/GoLLRB/llrb"

// boxItem is one timeline entry: a box sample keyed by normalized time.
type boxItem struct {
	t   float64
	box BBox
}

func (b *boxItem) Less(than llrb.Item) bool {
	return b.t < than.(*boxItem).t
}

// timeline is the sparse ordered time-to-box map. Keys are unique and
// iteration order equals temporal order. Backed by an LLRB tree so
// insert, delete, and the bracketing (floor/ceiling) lookups the
// evaluator needs are all O(log n).
//
// Owned exclusively by TrackedBox; the public API hands out copies of
// stored samples, never references into the tree.
type timeline struct {
	tree *llrb.LLRB
}

func newTimeline() *timeline {
	return &timeline{tree: llrb.New()}
}

// insert stores box at time t, replacing any entry with an equal key.
func (tl *timeline) insert(t float64, box BBox) {
	tl.tree.ReplaceOrInsert(&boxItem{t: t, box: box})
}

// remove deletes the entry at exactly time t, if present.
func (tl *timeline) remove(t float64) {
	tl.tree.Delete(&boxItem{t: t})
}

// get returns the entry stored at exactly time t.
func (tl *timeline) get(t float64) (BBox, bool) {
	if it := tl.tree.Get(&boxItem{t: t}); it != nil {
		return it.(*boxItem).box, true
	}
	return BBox{}, false
}

// floor returns the entry with the greatest key <= t.
func (tl *timeline) floor(t float64) (key float64, box BBox, ok bool) {
	tl.tree.DescendLessOrEqual(&boxItem{t: t}, func(it llrb.Item) bool {
		entry := it.(*boxItem)
		key, box, ok = entry.t, entry.box, true
		return false
	})
	return key, box, ok
}

// ceiling returns the entry with the least key >= t.
func (tl *timeline) ceiling(t float64) (key float64, box BBox, ok bool) {
	tl.tree.AscendGreaterOrEqual(&boxItem{t: t}, func(it llrb.Item) bool {
		entry := it.(*boxItem)
		key, box, ok = entry.t, entry.box, true
		return false
	})
	return key, box, ok
}

func (tl *timeline) len() int {
	return tl.tree.Len()
}

// clear empties the timeline.
func (tl *timeline) clear() {
	tl.tree = llrb.New()
}

// ascend visits every entry in ascending key order until fn returns
// false.
func (tl *timeline) ascend(fn func(t float64, box BBox) bool) {
	if tl.tree.Len() == 0 {
		return
	}
	tl.tree.AscendGreaterOrEqual(tl.tree.Min(), func(it llrb.Item) bool {
		entry := it.(*boxItem)
		return fn(entry.t, entry.box)
	})
}

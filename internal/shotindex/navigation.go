package shotindex

// Navigation is the cursor into an index's flat shot list.
// It is recomputed whenever the list changes and never stored.
type Navigation struct {
	Current int
	Total   int
}

// NewNavigation places the cursor at current, or at 0 if current is out of range.
func NewNavigation(current, total int) Navigation {
	if total <= 0 {
		return Navigation{}
	}
	if current < 0 || current >= total {
		current = 0
	}
	return Navigation{Current: current, Total: total}
}

// Valid reports whether the cursor points at a shot.
func (n Navigation) Valid() bool {
	return n.Total > 0 && n.Current >= 0 && n.Current < n.Total
}

// CanPrevious reports whether Move(-1) would change the cursor.
func (n Navigation) CanPrevious() bool {
	return n.Valid() && n.Current > 0
}

// CanNext reports whether Move(+1) would change the cursor.
func (n Navigation) CanNext() bool {
	return n.Valid() && n.Current < n.Total-1
}

// Move shifts the cursor by delta, clamped to the list. No wraparound.
func (n Navigation) Move(delta int) Navigation {
	if !n.Valid() {
		return n
	}
	next := n.Current + delta
	next = max(next, 0)
	next = min(next, n.Total-1)
	n.Current = next
	return n
}

// To moves the cursor to i. Out-of-range targets leave it unchanged.
func (n Navigation) To(i int) (Navigation, bool) {
	if i < 0 || i >= n.Total {
		return n, false
	}
	n.Current = i
	return n, true
}

// Position returns the 1-based position for display, e.g. "3/40".
func (n Navigation) Position() int {
	if !n.Valid() {
		return 0
	}
	return n.Current + 1
}

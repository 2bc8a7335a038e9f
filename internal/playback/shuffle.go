package playback

// newShuffleOrder builds a random permutation of [0..n-1] and locates the
// anchor (the playlist index currently playing) inside it, returning the
// permutation and the cursor position pointing at the anchor. The anchor
// keeps its logical slot so enabling shuffle never causes an audible jump.
//
// intn returns a uniform random int in [0, n); injected for deterministic
// tests.
func newShuffleOrder(intn func(n int) int, n, anchor int) (order []int, position int) {
	order = make([]int, n)
	for i := range order {
		order[i] = i
	}

	// Fisher-Yates: every permutation equally likely.
	for i := n - 1; i > 0; i-- {
		j := intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	for pos, idx := range order {
		if idx == anchor {
			return order, pos
		}
	}

	// The anchor is always present when it is a valid index; this path
	// only covers a corrupted anchor. Keep it playable at the front.
	return append([]int{anchor}, order...), 0
}

package playback

// target is the outcome of an advance computation.
type target struct {
	index      int
	shufflePos int
	commit     bool
}

// advanceTarget computes the playlist index an Advance should move to, as
// a total function over every reachable state. commit is false when the
// move is a no-op; a no-op must leave the whole state untouched, so that
// pressing next at the end of a non-repeating playlist does not pause a
// track that is still legitimately playing.
//
// RepeatOne is deliberately treated like RepeatOff here: it binds only
// natural end-of-track, which the device synchronizer handles without
// going through Advance. A manual skip under RepeatOne advances normally.
func advanceTarget(s State, dir Direction) target {
	none := target{index: s.CurrentIndex, shufflePos: s.ShufflePosition}

	if len(s.Playlist) == 0 || s.CurrentIndex < 0 {
		return none
	}

	// Shuffle traversal walks the permutation cursor. A nil order with
	// shuffle enabled means the playlist was replaced since the order was
	// generated; fall back to sequential until the next PlayTrack.
	if s.Shuffle && len(s.ShuffleOrder) > 0 {
		return shuffledTarget(s, dir, none)
	}
	return sequentialTarget(s, dir, none)
}

func sequentialTarget(s State, dir Direction, none target) target {
	n := len(s.Playlist)

	var next int
	switch dir {
	case Next:
		next = s.CurrentIndex + 1
		if next >= n {
			if s.Repeat != RepeatAll {
				return none
			}
			next = 0
		}
	case Previous:
		next = s.CurrentIndex - 1
		if next < 0 {
			if s.Repeat != RepeatAll {
				return none
			}
			next = n - 1
		}
	}

	if next == s.CurrentIndex {
		return none
	}
	return target{index: next, shufflePos: s.ShufflePosition, commit: true}
}

func shuffledTarget(s State, dir Direction, none target) target {
	last := len(s.ShuffleOrder) - 1

	var pos int
	switch dir {
	case Next:
		pos = s.ShufflePosition + 1
		if pos > last {
			if s.Repeat != RepeatAll {
				return none
			}
			pos = 0
		}
	case Previous:
		pos = s.ShufflePosition - 1
		if pos < 0 {
			if s.Repeat != RepeatAll {
				return none
			}
			pos = last
		}
	}

	index := s.ShuffleOrder[pos]
	if index < 0 || index >= len(s.Playlist) || index == s.CurrentIndex {
		return none
	}
	return target{index: index, shufflePos: pos, commit: true}
}
